package volume

import (
	"github.com/mastercactapus/gcbounds/coord"
	"github.com/pkg/errors"
)

// ShapeKind names a bed shape in a Descriptor.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapePolygon   ShapeKind = "polygon"
)

// Descriptor is the configuration form of a Volume, as found in machine
// profiles and API requests.
type Descriptor struct {
	Shape ShapeKind `yaml:"shape" json:"shape"`

	// rectangle
	Size   [2]float64 `yaml:"size" json:"size"`
	Origin [2]float64 `yaml:"origin" json:"origin"`

	// circle
	Center [2]float64 `yaml:"center" json:"center"`
	Radius float64    `yaml:"radius" json:"radius"`

	// polygon
	Outline [][2]float64 `yaml:"outline" json:"outline"`

	MaxZ float64 `yaml:"max_z" json:"max_z"`
}

// New validates d and builds the Volume it describes. An empty shape means
// rectangle.
func New(d Descriptor) (Volume, error) {
	v := Volume{MaxZ: d.MaxZ}

	switch d.Shape {
	case ShapeRectangle, "":
		if d.Size[0] <= 0 || d.Size[1] <= 0 {
			return v, errors.New("rectangle bed requires a positive X and Y size")
		}
		v.Shape = NewRectangle(d.Size[0], d.Size[1], coord.Point{X: d.Origin[0], Y: d.Origin[1]})
	case ShapeCircle:
		if d.Radius <= 0 {
			return v, errors.New("circle bed requires a positive radius")
		}
		v.Shape = Circle{
			Center: coord.Point{X: d.Center[0], Y: d.Center[1]},
			Radius: d.Radius,
		}
	case ShapePolygon:
		points := make([]coord.Point, len(d.Outline))
		for i, p := range d.Outline {
			points[i] = coord.Point{X: p[0], Y: p[1]}
		}
		poly, err := NewPolygon(points)
		if err != nil {
			return v, errors.Wrap(err, "polygon bed")
		}
		v.Shape = poly
	default:
		return v, errors.Errorf("unknown bed shape '%s'", d.Shape)
	}

	return v, nil
}
