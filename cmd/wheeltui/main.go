package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/config"
	"github.com/DoyleJ11/prize-wheel/internal/render"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

const (
	panelWidth      = 32
	defaultTickRate = 33 * time.Millisecond
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	palette, err := render.NewPalette(cfg.Wheel.Palette)
	if err != nil {
		return err
	}

	tick := cfg.Wheel.TickInterval
	if tick <= 0 {
		tick = defaultTickRate
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logging would scribble over the screen.
	wh := wheel.New(ctx, "local", wheel.Config{
		Spin:                  cfg.Wheel.SpinConfig(),
		MaxEntrants:           cfg.Wheel.MaxEntrants,
		LockListWhileSpinning: cfg.Wheel.LockListWhileSpinning,
		TickInterval:          tick,
	}, wheel.Hooks{}, zap.NewNop(), cfg.Wheel.DefaultEntrants...)
	defer wh.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	out := make(chan wheel.Snapshot, 256)
	if err := wh.Subscribe(ctx, "tui", out); err != nil {
		return err
	}

	ui := &app{
		screen:  screen,
		wheel:   wh,
		palette: palette,
		pointer: cfg.Wheel.PointerAngle,
	}
	return ui.loop(ctx, out)
}

type app struct {
	screen  tcell.Screen
	wheel   *wheel.Controller
	palette render.Palette
	pointer float64

	view     wheel.View
	rotation float64
	input    []rune
	selected int
	status   string
	winner   string
}

func (a *app) loop(ctx context.Context, out <-chan wheel.Snapshot) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case ev := <-events:
			if done := a.handleEvent(ctx, ev); done {
				return nil
			}

		case snap, ok := <-out:
			if !ok {
				return fmt.Errorf("wheel stopped")
			}
			a.apply(snap)
		}
		a.draw()
	}
}

func (a *app) apply(snap wheel.Snapshot) {
	switch snap.Kind {
	case wheel.KindState:
		a.view = snap.View
		if snap.View.Plan == nil {
			a.rotation = snap.View.Rotation.Absolute()
		}
		if a.selected >= len(a.view.Entrants) {
			a.selected = len(a.view.Entrants) - 1
		}
		if a.selected < 0 {
			a.selected = 0
		}
		if snap.View.LastResult == nil && snap.View.Plan == nil {
			a.winner = ""
		}
	case wheel.KindTick:
		a.rotation = snap.Tick.Rotation
	case wheel.KindResult:
		a.winner = snap.Result.WinningEntrant
		a.status = ""
	}
}

func (a *app) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()

	case *tcell.EventKey:
		a.status = ""
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyEnter:
			if err := a.wheel.AddEntrant(ctx, string(a.input)); err != nil {
				a.status = err.Error()
				break
			}
			a.input = a.input[:0]
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(a.input) > 0 {
				a.input = a.input[:len(a.input)-1]
			}
		case tcell.KeyUp:
			if a.selected > 0 {
				a.selected--
			}
		case tcell.KeyDown:
			if a.selected < len(a.view.Entrants)-1 {
				a.selected++
			}
		case tcell.KeyDelete:
			if err := a.wheel.DeleteEntrant(ctx, a.selected); err != nil {
				a.status = err.Error()
			}
		case tcell.KeyCtrlR:
			if err := a.wheel.ResetEntrants(ctx); err != nil {
				a.status = err.Error()
			}
		case tcell.KeyCtrlS:
			if _, err := a.wheel.RequestSpin(ctx); err != nil {
				a.status = err.Error()
				break
			}
			a.winner = ""
		case tcell.KeyRune:
			a.input = append(a.input, ev.Rune())
		}
	}
	return false
}

func (a *app) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()

	wheelW := w - panelWidth
	if wheelW < 10 {
		wheelW = w
	}
	frame := render.Layout(a.view.Sectors, a.rotation, a.palette, a.pointer)
	render.Paint(s, frame, render.Area{X: 0, Y: 0, W: wheelW, H: h})

	if wheelW != w {
		a.drawPanel(wheelW+1, h)
	}
	s.Show()
}

func (a *app) drawPanel(x, h int) {
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	y := 0

	drawText(a.screen, x, y, bold, fmt.Sprintf("Entrants %d/%d", len(a.view.Entrants), a.view.MaxEntrants))
	y += 2
	drawText(a.screen, x, y, tcell.StyleDefault, "> "+string(a.input)+"_")
	y += 2

	for i, name := range a.view.Entrants {
		if y >= h-5 {
			drawText(a.screen, x, y, dim, "...")
			y++
			break
		}
		style := tcell.StyleDefault
		if i == a.selected {
			style = style.Reverse(true)
		}
		swatch := tcell.StyleDefault.Background(hexToColor(a.palette.Fill(i)))
		a.screen.SetContent(x, y, ' ', nil, swatch)
		drawText(a.screen, x+2, y, style, truncate(name, panelWidth-4))
		y++
	}

	y = h - 4
	switch {
	case a.view.Plan != nil:
		drawText(a.screen, x, y, bold, "Spinning...")
	case a.winner != "":
		drawText(a.screen, x, y, bold.Foreground(tcell.ColorGreen), "Winner: "+truncate(a.winner, panelWidth-9))
	}
	if a.status != "" {
		drawText(a.screen, x, y+1, tcell.StyleDefault.Foreground(tcell.ColorRed), truncate(a.status, panelWidth-1))
	}
	drawText(a.screen, x, h-2, dim, "Enter add  Del remove  ^R reset")
	drawText(a.screen, x, h-1, dim, "^S spin  Esc quit")
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func hexToColor(hex string) tcell.Color {
	return tcell.GetColor(hex)
}
