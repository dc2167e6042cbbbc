package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
)

const (
	svgMargin     = 2.0
	labelFontSize = 14
)

// WriteSVG draws the frame as a size×size SVG document with the pointer on
// the rim.
func WriteSVG(w io.Writer, f Frame, size int) error {
	bw := bufio.NewWriter(w)
	c := float64(size) / 2
	r := c - svgMargin - pointerLength(c)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		size, size, size, size)

	switch {
	case f.Placeholder:
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(c), num(c), num(r), PlaceholderFill, PlaceholderStroke)

	case len(f.Wedges) == 1:
		// A single arc from an angle back to itself draws nothing.
		wd := f.Wedges[0]
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			num(c), num(c), num(r), wd.Fill, SectorStroke)
		writeLabel(bw, wd, c, r)

	default:
		for _, wd := range f.Wedges {
			x1, y1 := polar(c, c, r, wd.Start)
			x2, y2 := polar(c, c, r, wd.End)
			large := 0
			if wd.End-wd.Start > 180 {
				large = 1
			}
			fmt.Fprintf(bw, `<path d="M %s %s L %s %s A %s %s 0 %d 1 %s %s Z" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
				num(c), num(c), num(x1), num(y1), num(r), num(r), large, num(x2), num(y2), wd.Fill, SectorStroke)
		}
		for _, wd := range f.Wedges {
			writeLabel(bw, wd, c, r)
		}
	}

	writePointer(bw, f.PointerAngle, c, r)
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeLabel(w io.Writer, wd Wedge, c, r float64) {
	fmt.Fprintf(w, `<text transform="translate(%s %s) rotate(%s)" x="%s" y="5" text-anchor="end" fill="%s" font-family="Arial, sans-serif" font-weight="bold" font-size="%d">`,
		num(c), num(c), num(wd.LabelAngle), num(r*LabelRadius), wd.LabelColor, labelFontSize)
	_ = xml.EscapeText(w, []byte(wd.Label))
	io.WriteString(w, "</text>\n")
}

func writePointer(w io.Writer, angle, c, r float64) {
	l := pointerLength(c)
	tipX, tipY := polar(c, c, r-l/2, angle)
	lx, ly := polar(c, c, r+l, angle-4)
	rx, ry := polar(c, c, r+l, angle+4)
	fmt.Fprintf(w, `<polygon points="%s,%s %s,%s %s,%s" fill="#2c3e50"/>`+"\n",
		num(tipX), num(tipY), num(lx), num(ly), num(rx), num(ry))
}

func pointerLength(c float64) float64 {
	return math.Max(6, c*0.08)
}

// polar converts a screen angle (clockwise from +x, y down) to coordinates.
func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
