package coord

import (
	"math"
)

// Point is a machine position. E is the extrusion (progress) axis and is
// carried along, but never takes part in planar geometry.
type Point struct{ X, Y, Z, E float64 }

func (p Point) Mul(val float64) Point {
	p.X *= val
	p.Y *= val
	p.Z *= val
	p.E *= val
	return p
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	p.E += target.E
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	p.E -= target.E
	return p
}

// Lerp returns the point at fraction t along the straight line from p to the target.
func (p Point) Lerp(target Point, t float64) Point {
	return p.Add(target.Sub(p).Mul(t))
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p Point) DistanceXY(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

// AngleXY returns the angle of (x,y) around p, in radians.
func (p Point) AngleXY(x, y float64) float64 {
	return math.Atan2(y-p.Y, x-p.X)
}

// OnCircleXY returns the point at angle a on the circle of radius r around p.
// Z and E are copied from p.
func (p Point) OnCircleXY(r, a float64) Point {
	p.X += r * math.Cos(a)
	p.Y += r * math.Sin(a)
	return p
}
