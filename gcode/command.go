package gcode

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the motion mode named by a command.
type Kind int

const (
	Rapid  Kind = iota // G0
	Linear             // G1
	ArcCW              // G2
	ArcCCW             // G3
)

func (k Kind) IsArc() bool { return k == ArcCW || k == ArcCCW }

// Code returns the G-code word for the kind, e.g. "G2".
func (k Kind) Code() string { return "G" + strconv.Itoa(int(k)) }

func (k Kind) String() string {
	switch k {
	case Rapid:
		return "Rapid"
	case Linear:
		return "Linear"
	case ArcCW:
		return "Arc CW (G2)"
	case ArcCCW:
		return "Arc CCW (G3)"
	}
	return "Unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.Code()), nil }

func (k *Kind) UnmarshalText(data []byte) error {
	for _, c := range []Kind{Rapid, Linear, ArcCW, ArcCCW} {
		if c.Code() == string(data) {
			*k = c
			return nil
		}
	}
	return errors.Errorf("unknown motion kind '%s'", data)
}

// Command is a parsed motion command.
//
// Args only contains the words that were present on the line; an absent
// axis means the current value is held.
type Command struct {
	Kind Kind
	Args Block

	// Line and Text identify the source line for reporting.
	Line int
	Text string
}

func (c Command) Arg(w byte) (bool, float64) { return c.Args.Arg(w) }

// HasXY reports whether X or Y were given explicitly.
func (c Command) HasXY() bool { return c.Args.Has('X', 'Y') }

// Moves reports whether the command changes any of X, Y or Z.
func (c Command) Moves() bool { return c.Args.Has('X', 'Y', 'Z') }

// IsArc reports whether the command is circular interpolation, meaning a G2/G3
// with at least one of the I/J center offsets. G2/G3 without offsets are
// treated as straight moves.
func (c Command) IsArc() bool { return c.Kind.IsArc() && c.Args.Has('I', 'J') }

func (c Command) String() string { return c.Kind.Code() + c.Args.String() }
