package volume

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/gcbounds/coord"
	"github.com/pkg/errors"
)

// Polygon is a bed described by outline points. The reachable area is the
// convex hull of the outline.
type Polygon struct {
	minX, minY, maxX, maxY float64
	triangles              []coord.Triangle
	hull                   []coord.Point
}

func NewPolygon(points []coord.Point) (*Polygon, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to describe a bed outline")
	}

	points2d := make([]delaunay.Point, len(points))

	poly := &Polygon{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	for i, p := range points {
		poly.minX = math.Min(poly.minX, p.X)
		poly.minY = math.Min(poly.minY, p.Y)
		poly.maxX = math.Max(poly.maxX, p.X)
		poly.maxY = math.Max(poly.maxY, p.Y)

		points2d[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, errors.Wrap(err, "triangulate bed outline")
	}
	if len(tri.Triangles) == 0 || len(tri.ConvexHull) < 3 {
		return nil, errors.New("bed outline has no area")
	}

	poly.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		a, b, c := tri.Points[tri.Triangles[i]], tri.Points[tri.Triangles[i+1]], tri.Points[tri.Triangles[i+2]]
		poly.triangles = append(poly.triangles, coord.Triangle{
			A: coord.Point{X: a.X, Y: a.Y},
			B: coord.Point{X: b.X, Y: b.Y},
			C: coord.Point{X: c.X, Y: c.Y},
		})
	}

	poly.hull = make([]coord.Point, len(tri.ConvexHull))
	for i, p := range tri.ConvexHull {
		poly.hull[i] = coord.Point{X: p.X, Y: p.Y}
	}

	return poly, nil
}

func (p *Polygon) contains(x, y float64) bool {
	if x < p.minX-coord.Epsilon || p.maxX+coord.Epsilon < x || y < p.minY-coord.Epsilon || p.maxY+coord.Epsilon < y {
		return false
	}
	for _, t := range p.triangles {
		if t.ContainsXY(x, y) {
			return true
		}
	}
	return false
}

func (p *Polygon) CheckXY(x, y float64) Tags {
	if p.ExcessXY(x, y) > Tolerance {
		return TagsOf(Outline)
	}
	return 0
}

// ExcessXY returns the distance from (x,y) to the nearest hull edge when
// the point is outside.
func (p *Polygon) ExcessXY(x, y float64) float64 {
	if p.contains(x, y) {
		return 0
	}

	dist := math.Inf(1)
	for i, a := range p.hull {
		b := p.hull[(i+1)%len(p.hull)]
		dist = math.Min(dist, coord.SegmentDistanceXY(a, b, x, y))
	}
	return dist
}

func (*Polygon) FoldsZ() bool { return true }

func (p *Polygon) String() string {
	return fmt.Sprintf("polygon of %d points X[%.1f, %.1f] Y[%.1f, %.1f]", len(p.hull), p.minX, p.maxX, p.minY, p.maxY)
}
