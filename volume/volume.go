package volume

import (
	"fmt"
	"math"

	"github.com/mastercactapus/gcbounds/coord"
)

// Tolerance is how far a point may be past a boundary before it is flagged.
const Tolerance = 0.01

// Shape is the reachable area of a bed in the XY plane.
type Shape interface {
	// CheckXY returns the planar boundaries (x,y) is past.
	CheckXY(x, y float64) Tags

	// ExcessXY returns how far (x,y) is outside the shape, or 0.
	ExcessXY(x, y float64) float64

	// FoldsZ reports whether Z excess is included in the distance out.
	FoldsZ() bool

	String() string
}

// Volume is a bed shape with an optional Z ceiling.
type Volume struct {
	Shape Shape

	// MaxZ is the Z ceiling; values <= 0 disable Z checks.
	MaxZ float64
}

func (v Volume) ZEnabled() bool { return v.MaxZ > 0 }

// Check returns every boundary p is past. Planar boundaries are only
// checked if planar is set; the Z ceiling is always checked.
func (v Volume) Check(p coord.Point, planar bool) Tags {
	var t Tags
	if planar {
		t = v.Shape.CheckXY(p.X, p.Y)
	}
	if v.ZEnabled() && p.Z > v.MaxZ+Tolerance {
		t = t.With(ZMax)
	}
	return t
}

// DistanceOut returns how far p is outside the volume, in mm.
//
// Z excess only counts for shapes that fold it in: a point above a
// circular bed reports ZMax from Check but no distance.
func (v Volume) DistanceOut(p coord.Point, planar bool) float64 {
	var xy, z float64
	if planar {
		xy = v.Shape.ExcessXY(p.X, p.Y)
	}
	if v.ZEnabled() && v.Shape.FoldsZ() {
		z = math.Max(0, p.Z-v.MaxZ)
	}
	return math.Hypot(xy, z)
}

func (v Volume) String() string {
	if !v.ZEnabled() {
		return v.Shape.String() + " Z[unchecked]"
	}
	return fmt.Sprintf("%s Z[0, %.1f]", v.Shape, v.MaxZ)
}

// Rectangle is an axis-aligned bed.
type Rectangle struct {
	Min, Max coord.Point
}

// NewRectangle returns a w by d bed with its minimum corner at origin.
func NewRectangle(w, d float64, origin coord.Point) Rectangle {
	return Rectangle{
		Min: coord.Point{X: origin.X, Y: origin.Y},
		Max: coord.Point{X: origin.X + w, Y: origin.Y + d},
	}
}

func (r Rectangle) CheckXY(x, y float64) Tags {
	var t Tags
	if x < r.Min.X-Tolerance {
		t = t.With(XMin)
	}
	if x > r.Max.X+Tolerance {
		t = t.With(XMax)
	}
	if y < r.Min.Y-Tolerance {
		t = t.With(YMin)
	}
	if y > r.Max.Y+Tolerance {
		t = t.With(YMax)
	}
	return t
}

func excess(v, min, max float64) float64 {
	return math.Max(0, math.Max(min-v, v-max))
}

func (r Rectangle) ExcessXY(x, y float64) float64 {
	return math.Hypot(excess(x, r.Min.X, r.Max.X), excess(y, r.Min.Y, r.Max.Y))
}

func (Rectangle) FoldsZ() bool { return true }

func (r Rectangle) String() string {
	return fmt.Sprintf("rectangle X[%.1f, %.1f] Y[%.1f, %.1f]", r.Min.X, r.Max.X, r.Min.Y, r.Max.Y)
}

// Circle is a disk-shaped bed, as found on delta machines.
type Circle struct {
	Center coord.Point
	Radius float64
}

func (c Circle) CheckXY(x, y float64) Tags {
	if c.Center.DistanceXY(x, y) > c.Radius+Tolerance {
		return TagsOf(Radius)
	}
	return 0
}

func (c Circle) ExcessXY(x, y float64) float64 {
	return math.Max(0, c.Center.DistanceXY(x, y)-c.Radius)
}

func (Circle) FoldsZ() bool { return false }

func (c Circle) String() string {
	return fmt.Sprintf("circle center (%.1f, %.1f) radius %.1f", c.Center.X, c.Center.Y, c.Radius)
}
