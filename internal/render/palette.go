package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

var DefaultColors = []string{"#f39c12", "#2ecc71", "#3498db", "#9b59b6", "#e74c3c", "#1abc9c", "#f1c40f", "#e67e22"}

const (
	PlaceholderFill   = "#ecf0f1"
	PlaceholderStroke = "#bdc3c7"
	SectorStroke      = "#ffffff"
	lightLabel        = "#ffffff"
	darkLabel         = "#2c3e50"
)

// Palette is the ordered sector color cycle.
type Palette struct {
	hex    []string
	colors []colorful.Color
}

func NewPalette(hex []string) (Palette, error) {
	if len(hex) == 0 {
		return Palette{}, fmt.Errorf("%w: palette is empty", engine.ErrInvalidConfig)
	}
	p := Palette{hex: make([]string, len(hex)), colors: make([]colorful.Color, len(hex))}
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: palette color %q: %v", engine.ErrInvalidConfig, h, err)
		}
		p.hex[i] = c.Hex()
		p.colors[i] = c
	}
	return p, nil
}

func DefaultPalette() Palette {
	p, err := NewPalette(DefaultColors)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Palette) Len() int { return len(p.hex) }

// Fill returns the color for sector i, cycling through the palette.
func (p Palette) Fill(i int) string {
	if len(p.hex) == 0 {
		return PlaceholderFill
	}
	return p.hex[i%len(p.hex)]
}

// Label picks white or dark text, whichever reads better on sector i.
func (p Palette) Label(i int) string {
	if len(p.colors) == 0 {
		return darkLabel
	}
	l, _, _ := p.colors[i%len(p.colors)].Lab()
	if l > 0.8 {
		return darkLabel
	}
	return lightLabel
}
