package toolpath

import (
	"math"

	"github.com/mastercactapus/gcbounds/coord"
	"github.com/mastercactapus/gcbounds/gcode"
)

const (
	// MinArcSamples is the fewest points sampled on any arc.
	MinArcSamples = 8

	// ArcSampleSpacing is the approximate arc length between samples, in mm.
	ArcSampleSpacing = 5.0
)

// Arc is the reconstructed path of a G2/G3 command.
type Arc struct {
	Start, End coord.Point
	Center     coord.Point
	Radius     float64

	// StartAngle is the angle of Start around Center. Sweep is the
	// unsigned angle travelled, in the direction given by Clockwise.
	StartAngle float64
	Sweep      float64
	Clockwise  bool

	// Full is set when neither X nor Y was given. An explicit end equal to
	// the start is not a full circle; it sweeps nothing.
	Full bool
}

// NewArc reconstructs the arc c makes when started at p.
//
// I and J are offsets from the start point to the center. A missing X or Y
// holds the start value; if both are missing the arc is a full circle.
func NewArc(p coord.Point, c gcode.Command) Arc {
	_, i := c.Arg('I')
	_, j := c.Arg('J')
	hasX, x := c.Arg('X')
	hasY, y := c.Arg('Y')

	a := Arc{
		Start:     p,
		End:       p,
		Center:    coord.Point{X: p.X + i, Y: p.Y + j},
		Radius:    math.Hypot(i, j),
		Clockwise: c.Kind == gcode.ArcCW,
	}
	if ok, z := c.Arg('Z'); ok {
		a.End.Z = z
	}
	if ok, e := c.Arg('E'); ok {
		a.End.E = e
	}
	a.StartAngle = a.Center.AngleXY(p.X, p.Y)

	if !hasX && !hasY {
		a.Full = true
		a.Sweep = 2 * math.Pi
		end := a.Center.OnCircleXY(a.Radius, a.angle(1))
		a.End.X, a.End.Y = end.X, end.Y
		return a
	}
	if hasX {
		a.End.X = x
	}
	if hasY {
		a.End.Y = y
	}

	end := a.Center.AngleXY(a.End.X, a.End.Y)
	if a.Clockwise {
		if end > a.StartAngle {
			end -= 2 * math.Pi
		}
		a.Sweep = a.StartAngle - end
	} else {
		if end < a.StartAngle {
			end += 2 * math.Pi
		}
		a.Sweep = end - a.StartAngle
	}

	return a
}

// Degenerate reports whether the arc has no radius. Degenerate arcs are
// checked at their end point only.
func (a Arc) Degenerate() bool { return a.Radius == 0 }

func (a Arc) angle(t float64) float64 {
	if a.Clockwise {
		return a.StartAngle - a.Sweep*t
	}
	return a.StartAngle + a.Sweep*t
}

// SampleCount returns the number of intervals the arc is split into,
// roughly one per ArcSampleSpacing of arc length and never fewer than
// MinArcSamples.
func (a Arc) SampleCount() int {
	n := int(math.Abs(a.Sweep) * a.Radius / ArcSampleSpacing)
	if n < MinArcSamples {
		return MinArcSamples
	}
	return n
}

// At returns the point at fraction t of the arc. Z moves linearly from
// start to end; E is the end value throughout.
func (a Arc) At(t float64) coord.Point {
	p := a.Center.OnCircleXY(a.Radius, a.angle(t))
	p.Z = a.Start.Z + (a.End.Z-a.Start.Z)*t
	p.E = a.End.E
	return p
}

// Samples returns SampleCount()+1 evenly spaced points from start to end.
func (a Arc) Samples() []coord.Point {
	n := a.SampleCount()
	res := make([]coord.Point, n+1)
	for i := range res {
		res[i] = a.At(float64(i) / float64(n))
	}
	return res
}
