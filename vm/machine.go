package vm

import (
	"math"

	"github.com/mastercactapus/gcbounds/coord"
	"github.com/mastercactapus/gcbounds/gcode"
)

// ExtrudeEpsilon is the smallest E change that counts as depositing material.
const ExtrudeEpsilon = 0.001

// MoveKind classifies a move as travel or depositing.
type MoveKind int

const (
	Travel MoveKind = iota
	Depositing
)

func (k MoveKind) String() string {
	switch k {
	case Travel:
		return "Travel"
	case Depositing:
		return "Extrude"
	}
	return "Unknown"
}

func (k MoveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Machine tracks the current position of the tool head.
//
// It only understands absolute G0-G3 positioning; it is not a full interpreter.
type Machine struct {
	pos coord.Point
}

// NewMachine returns a Machine at the origin.
func NewMachine() *Machine {
	return &Machine{}
}

func (m Machine) Pos() coord.Point { return m.pos }

// Commit makes p the current position.
func (m *Machine) Commit(p coord.Point) { m.pos = p }

// Apply returns the current position and the position after c, without
// committing it. ok is false if c does not move any axis.
func (m Machine) Apply(c gcode.Command) (old, next coord.Point, ok bool) {
	next, ok = Apply(m.pos, c)
	return m.pos, next, ok
}

// Apply copies every axis present in c onto p. It returns false if c has
// no X, Y or Z word.
func Apply(p coord.Point, c gcode.Command) (coord.Point, bool) {
	for _, g := range c.Args {
		switch g.W {
		case 'X':
			p.X = g.Arg
		case 'Y':
			p.Y = g.Arg
		case 'Z':
			p.Z = g.Arg
		case 'E':
			p.E = g.Arg
		}
	}

	return p, c.Moves()
}

// Classify decides whether the move from old to next deposits material.
//
// Arcs are classified by direction only: G3 counts as depositing and G2 as
// travel, whatever E does. A G2 or G3 without I or J moves in a straight line
// and always counts as depositing.
func Classify(c gcode.Command, old, next coord.Point) MoveKind {
	if c.Kind.IsArc() && !c.IsArc() {
		return Depositing
	}

	switch c.Kind {
	case gcode.Rapid:
		return Travel
	case gcode.Linear:
		if math.Abs(next.E-old.E) > ExtrudeEpsilon {
			return Depositing
		}
		return Travel
	case gcode.ArcCCW:
		return Depositing
	case gcode.ArcCW:
		return Travel
	}
	return Travel
}
