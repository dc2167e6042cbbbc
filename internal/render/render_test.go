package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

func TestLayout_PaletteCyclesAndRotationApplied(t *testing.T) {
	entrants := make([]string, 10)
	for i := range entrants {
		entrants[i] = string(rune('A' + i))
	}
	f := Layout(engine.Sectors(entrants), 370, DefaultPalette(), engine.PointerTop)

	require.Len(t, f.Wedges, 10)
	assert.False(t, f.Placeholder)
	assert.Equal(t, 10.0, f.Rotation)
	for i, w := range f.Wedges {
		assert.Equal(t, DefaultPalette().Fill(i%8), w.Fill)
		assert.Equal(t, entrants[i], w.Label)
	}
	assert.Equal(t, f.Wedges[0].Fill, f.Wedges[8].Fill)
	assert.Equal(t, 10.0, f.Wedges[0].Start)
	assert.Equal(t, 46.0, f.Wedges[0].End)
	assert.Equal(t, 28.0, f.Wedges[0].LabelAngle)
}

func TestLayout_Idempotent(t *testing.T) {
	sectors := engine.Sectors([]string{"A", "B", "C"})
	a := Layout(sectors, 123.5, DefaultPalette(), engine.PointerTop)
	b := Layout(sectors, 123.5, DefaultPalette(), engine.PointerTop)
	assert.Equal(t, a, b)
}

func TestLayout_EmptyIsPlaceholder(t *testing.T) {
	f := Layout(nil, 0, DefaultPalette(), engine.PointerTop)
	assert.True(t, f.Placeholder)
	assert.Empty(t, f.Wedges)
	assert.Equal(t, -1, f.WedgeAt(270))
}

func TestFrame_WedgeAtPointerMatchesPlan(t *testing.T) {
	entrants := []string{"A", "B", "C", "D"}
	plan, err := engine.PlanSpin(2, 4, engine.Rotation{}, engine.DefaultSpinConfig(), engine.SystemRNG{})
	require.NoError(t, err)

	f := Layout(engine.Sectors(entrants), plan.Target.Absolute(), DefaultPalette(), engine.PointerTop)
	assert.Equal(t, 2, f.WedgeAt(engine.PointerTop))
	assert.Equal(t, "C", f.Wedges[f.WedgeAt(engine.PointerTop)].Label)
}

func TestNewPalette(t *testing.T) {
	_, err := NewPalette(nil)
	require.ErrorIs(t, err, engine.ErrInvalidConfig)

	_, err = NewPalette([]string{"#fff000", "not-a-color"})
	require.ErrorIs(t, err, engine.ErrInvalidConfig)

	p, err := NewPalette([]string{"#FFFFFF", "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", p.Fill(0))
	assert.Equal(t, "#000000", p.Fill(3))
	assert.Equal(t, darkLabel, p.Label(0))
	assert.Equal(t, lightLabel, p.Label(1))
	assert.Equal(t, 2, p.Len())
}

func TestWriteSVG(t *testing.T) {
	sectors := engine.Sectors([]string{"Ann", "Bob & Co", "Cy"})
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Layout(sectors, 45, DefaultPalette(), engine.PointerTop), 300))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 3, strings.Count(out, "<path"))
	assert.Equal(t, 3, strings.Count(out, "<text"))
	assert.Contains(t, out, "Bob &amp; Co")
	assert.Contains(t, out, "<polygon")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteSVG_PlaceholderAndSingle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Layout(nil, 0, DefaultPalette(), engine.PointerTop), 200))
	assert.Contains(t, buf.String(), PlaceholderFill)
	assert.NotContains(t, buf.String(), "<path")

	buf.Reset()
	require.NoError(t, WriteSVG(&buf, Layout(engine.Sectors([]string{"solo"}), 0, DefaultPalette(), engine.PointerTop), 200))
	assert.Equal(t, 1, strings.Count(buf.String(), "<circle"))
	assert.Contains(t, buf.String(), "solo")
}

func TestEaseOutAndInterpolate(t *testing.T) {
	assert.Equal(t, 0.0, EaseOut(-1))
	assert.Equal(t, 1.0, EaseOut(2))
	assert.InDelta(t, 0.875, EaseOut(0.5), 1e-12)

	plan := engine.Plan{
		Start:    engine.Rotation{Degrees: 10},
		Target:   engine.Rotation{Turns: 4, Degrees: 45},
		Duration: 4 * time.Second,
	}
	assert.Equal(t, 10.0, Interpolate(plan, 0))
	mid := Interpolate(plan, 2*time.Second)
	assert.Greater(t, mid, 10.0)
	assert.Less(t, mid, plan.Target.Absolute())
	assert.Equal(t, plan.Target.Absolute(), Interpolate(plan, 4*time.Second))
	assert.Equal(t, plan.Target.Absolute(), Interpolate(plan, time.Minute))
}

func TestPaint_PointerCellShowsWinner(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	sectors := engine.Sectors([]string{"A", "B", "C", "D"})
	f := Layout(sectors, 45, DefaultPalette(), engine.PointerTop)
	area := Area{X: 0, Y: 0, W: 80, H: 24}
	Paint(screen, f, area)

	// Just below the pointer, at the top of the disc, sits sector C.
	want := tcell.StyleDefault.Background(hexColor(f.Wedges[2].Fill)).Foreground(hexColor(f.Wedges[2].LabelColor))
	_, _, style, _ := screen.GetContent(40, 2)
	assert.Equal(t, want, style)

	// The disc is centred on the boundary between columns 39 and 40.
	left, _, _, _ := screen.GetContent(39, 0)
	right, _, _, _ := screen.GetContent(40, 0)
	assert.True(t, left == '▼' || right == '▼', "pointer not found above the wheel")
}

func TestPaint_Placeholder(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 20)

	Paint(screen, Layout(nil, 0, DefaultPalette(), engine.PointerTop), Area{W: 40, H: 20})

	_, _, style, _ := screen.GetContent(20, 10)
	assert.Equal(t, tcell.StyleDefault.Background(hexColor(PlaceholderFill)), style)
}
