package engine

import "math"

const FullTurn = 360.0

// Sector is the slice of the wheel assigned to one entrant, in degrees of the
// wheel's own (unrotated) frame.
type Sector struct {
	Index   int     `json:"index"`
	Entrant string  `json:"entrant"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Bisector is the angle through the middle of the sector.
func (s Sector) Bisector() float64 {
	return s.Start + (s.End-s.Start)/2
}

// Sectors maps entrants onto equal contiguous arcs. Sector i corresponds to
// entrant i; the first starts at 0 and the last ends at exactly 360.
func Sectors(entrants []string) []Sector {
	n := len(entrants)
	if n == 0 {
		return []Sector{}
	}

	out := make([]Sector, n)
	for i, e := range entrants {
		out[i] = Sector{
			Index:   i,
			Entrant: e,
			Start:   boundary(i, n),
			End:     boundary(i+1, n),
		}
	}
	return out
}

// boundary computes i*360/n with the multiplication first so that the final
// boundary is exactly 360 and shared edges are bit-identical.
func boundary(i, n int) float64 {
	if i == n {
		return FullTurn
	}
	return float64(i) * FullTurn / float64(n)
}

func ArcSize(n int) (float64, error) {
	if n < 1 {
		return 0, ErrInsufficientEntrants
	}
	return FullTurn / float64(n), nil
}

// SectorAt reports which sector sits under the pointer when the wheel is
// turned by rotation. It returns -1 for an empty wheel.
func SectorAt(rotation Rotation, pointerAngle float64, n int) int {
	if n < 1 {
		return -1
	}
	local := Mod360(pointerAngle - rotation.Degrees)
	idx := int(math.Floor(local * float64(n) / FullTurn))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Mod360 wraps an angle into [0, 360).
func Mod360(deg float64) float64 {
	m := math.Mod(deg, FullTurn)
	if m < 0 {
		m += FullTurn
	}
	if m >= FullTurn {
		m = 0
	}
	return m
}
