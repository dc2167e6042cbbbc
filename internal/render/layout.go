package render

import "github.com/DoyleJ11/prize-wheel/internal/engine"

// LabelRadius is where labels end, as a fraction of the wheel radius.
const LabelRadius = 0.9

// Wedge is one sector as it appears on screen. Angles are screen degrees,
// clockwise from the positive x-axis, with the wheel rotation applied.
type Wedge struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	Fill       string  `json:"fill"`
	LabelColor string  `json:"label_color"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	// LabelAngle is the bisector; text runs along it towards the rim.
	LabelAngle float64 `json:"label_angle"`
}

type Frame struct {
	Rotation     float64 `json:"rotation"`
	PointerAngle float64 `json:"pointer_angle"`
	Wedges       []Wedge `json:"wedges"`
	Placeholder  bool    `json:"placeholder"`
}

// Layout turns a sector layout and rotation snapshot into a drawable frame.
// It has no state of its own: equal inputs give equal frames.
func Layout(sectors []engine.Sector, rotation float64, palette Palette, pointerAngle float64) Frame {
	rot := engine.Mod360(rotation)
	f := Frame{
		Rotation:     rot,
		PointerAngle: pointerAngle,
		Wedges:       make([]Wedge, 0, len(sectors)),
		Placeholder:  len(sectors) == 0,
	}

	for _, s := range sectors {
		f.Wedges = append(f.Wedges, Wedge{
			Index:      s.Index,
			Label:      s.Entrant,
			Fill:       palette.Fill(s.Index),
			LabelColor: palette.Label(s.Index),
			Start:      s.Start + rot,
			End:        s.End + rot,
			LabelAngle: engine.Mod360(s.Bisector() + rot),
		})
	}
	return f
}

// WedgeAt returns the index of the wedge covering screen angle deg, or -1.
func (f Frame) WedgeAt(deg float64) int {
	n := len(f.Wedges)
	if n == 0 {
		return -1
	}
	return engine.SectorAt(engine.Rotation{Degrees: f.Rotation}, deg, n)
}
