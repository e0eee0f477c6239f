package toolpath

import (
	"github.com/mastercactapus/gcbounds/coord"
	"github.com/mastercactapus/gcbounds/gcode"
	"github.com/mastercactapus/gcbounds/vm"
	"github.com/mastercactapus/gcbounds/volume"
)

// Violation is the first point of a command found outside the volume.
type Violation struct {
	Line int    `json:"line"`
	Text string `json:"text"`

	Position coord.Point `json:"position"`
	Kind     gcode.Kind  `json:"kind"`
	Move     vm.MoveKind `json:"move"`

	// Arc is set if the command was sampled as a circular move.
	Arc bool `json:"arc"`

	Tags     volume.Tags `json:"tags"`
	Distance float64     `json:"distance"`
}

// Move is the outcome of evaluating one command.
type Move struct {
	From, To coord.Point
	Kind     vm.MoveKind

	// Arc is set for circular moves.
	Arc *Arc

	// Violation is nil if the move stays inside the volume.
	Violation *Violation
}

// Evaluator checks single commands against a volume.
type Evaluator struct {
	Volume volume.Volume
}

func (e Evaluator) violation(c gcode.Command, p coord.Point, kind vm.MoveKind, planar bool) *Violation {
	tags := e.Volume.Check(p, planar)
	if tags.Empty() {
		return nil
	}
	return &Violation{
		Line:     c.Line,
		Text:     c.Text,
		Position: p,
		Kind:     c.Kind,
		Move:     kind,
		Arc:      c.IsArc(),
		Tags:     tags,
		Distance: e.Volume.DistanceOut(p, planar),
	}
}

// Linear checks a straight move from old to next at its end point only.
// XY is skipped unless the command named X or Y, so a Z hop never reports an
// old XY excursion again.
func (e Evaluator) Linear(c gcode.Command, old, next coord.Point) Move {
	m := Move{From: old, To: next, Kind: vm.Classify(c, old, next)}
	m.Violation = e.violation(c, next, m.Kind, c.HasXY())
	return m
}

// Arc samples the path of a circular move started at p and stops at the
// first violation.
func (e Evaluator) Arc(p coord.Point, c gcode.Command) Move {
	a := NewArc(p, c)
	m := Move{From: p, To: a.End, Arc: &a, Kind: vm.Classify(c, p, a.End)}

	if a.Degenerate() {
		m.Violation = e.violation(c, a.End, m.Kind, true)
		return m
	}

	samples := a.Samples()
	for _, s := range samples {
		m.Violation = e.violation(c, s, m.Kind, true)
		if m.Violation != nil {
			return m
		}
	}

	// an end point off the circle is still where the head ends up
	last := samples[len(samples)-1]
	if a.End.DistanceXY(last.X, last.Y) > volume.Tolerance {
		m.Violation = e.violation(c, a.End, m.Kind, true)
	}

	return m
}
