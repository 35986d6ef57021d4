package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// rose is a plot.Plotter drawing filled wedges on a polar frequency chart.
// Wedge i covers directions [i*w, (i+1)*w) degrees with w = 360/len(freqs),
// radius proportional to its frequency, normalized so the longest wedge
// reaches the unit circle in data coordinates.
type rose struct {
	freqs []float64
	fill  color.Color
	line  color.Color
}

func newRose(freqs []float64) *rose {
	return &rose{
		freqs: freqs,
		fill:  color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xb0},
		line:  color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
}

// arcSteps controls how finely wedge arcs are approximated by segments.
const arcSteps = 8

// Plot implements plot.Plotter.
func (r *rose) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cx, cy := trX(0), trY(0)

	maxFreq := 0.0
	for _, f := range r.freqs {
		if f > maxFreq {
			maxFreq = f
		}
	}
	if maxFreq == 0 {
		return
	}

	n := len(r.freqs)
	width := 360.0 / float64(n)
	for i, f := range r.freqs {
		if f == 0 {
			continue
		}
		radius := f / maxFreq
		from := float64(i) * width
		to := from + width

		var path vg.Path
		path.Move(vg.Point{X: cx, Y: cy})
		for s := 0; s <= arcSteps; s++ {
			dir := from + (to-from)*float64(s)/arcSteps
			x, y := polarToXY(dir, radius)
			path.Line(vg.Point{X: trX(x), Y: trY(y)})
		}
		path.Close()

		c.SetColor(r.fill)
		c.Fill(path)
		c.SetColor(r.line)
		c.Stroke(path)
	}

	// Reference circle at the outer edge.
	c.SetColor(color.Gray{Y: 0x99})
	var ring vg.Path
	for s := 0; s <= arcSteps*8; s++ {
		dir := 360 * float64(s) / float64(arcSteps*8)
		x, y := polarToXY(dir, 1)
		pt := vg.Point{X: trX(x), Y: trY(y)}
		if s == 0 {
			ring.Move(pt)
		} else {
			ring.Line(pt)
		}
	}
	c.Stroke(ring)
}

// polarToXY maps a meteorological direction (degrees, 0=North, clockwise)
// and radius to cartesian data coordinates with North up.
func polarToXY(dirDeg, radius float64) (x, y float64) {
	rad := (90 - dirDeg) * math.Pi / 180
	return radius * math.Cos(rad), radius * math.Sin(rad)
}
