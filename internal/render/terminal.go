package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Area is a rectangle of terminal cells.
type Area struct {
	X, Y, W, H int
}

// cellAspect is how many columns make up one row's height on a typical
// terminal font.
const cellAspect = 2.0

// Paint rasterizes the frame into area. Cells outside the disc are left
// untouched.
func Paint(screen tcell.Screen, f Frame, area Area) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	cx := float64(area.X) + float64(area.W)/2
	cy := float64(area.Y) + float64(area.H)/2
	// Leave one row above the disc for the pointer.
	r := math.Min(float64(area.H)/2-1, float64(area.W)/(2*cellAspect))
	if r < 1 {
		return
	}

	n := len(f.Wedges)
	styles := make([]tcell.Style, n)
	for i, wd := range f.Wedges {
		styles[i] = tcell.StyleDefault.Background(hexColor(wd.Fill)).Foreground(hexColor(wd.LabelColor))
	}
	placeholder := tcell.StyleDefault.Background(hexColor(PlaceholderFill))

	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			dx := (float64(x) + 0.5 - cx) / cellAspect
			dy := float64(y) + 0.5 - cy
			if math.Hypot(dx, dy) > r {
				continue
			}
			if f.Placeholder || n == 0 {
				screen.SetContent(x, y, ' ', nil, placeholder)
				continue
			}
			deg := math.Atan2(dy, dx) * 180 / math.Pi
			screen.SetContent(x, y, ' ', nil, styles[f.WedgeAt(deg)])
		}
	}

	for i, wd := range f.Wedges {
		paintLabel(screen, wd, styles[i], cx, cy, r)
	}

	px, py := cellAt(cx, cy, r+0.5, f.PointerAngle)
	screen.SetContent(px, py, pointerRune(f.PointerAngle), nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
}

// paintLabel writes the label horizontally, centred on the bisector at
// mid-radius, truncated to what fits.
func paintLabel(screen tcell.Screen, wd Wedge, style tcell.Style, cx, cy, r float64) {
	label := []rune(wd.Label)
	limit := int(r * cellAspect * 0.6)
	if limit < 1 {
		return
	}
	if len(label) > limit {
		label = label[:limit]
	}
	x, y := cellAt(cx, cy, r*0.6, wd.LabelAngle)
	x -= len(label) / 2
	for i, ch := range label {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func cellAt(cx, cy, r, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	x := cx + r*math.Cos(rad)*cellAspect
	y := cy + r*math.Sin(rad)
	return int(math.Floor(x)), int(math.Floor(y))
}

func pointerRune(deg float64) rune {
	switch {
	case deg >= 225 && deg < 315:
		return '▼'
	case deg >= 45 && deg < 135:
		return '▲'
	case deg >= 135 && deg < 225:
		return '▶'
	default:
		return '◀'
	}
}

func hexColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorGray
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
