package gcode

import "strings"

// Block holds the parameter words present on a line, in extraction order.
type Block []Word

func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.W == w {
			return true, g.Arg
		}
	}
	return false, 0
}

// Has reports whether any of the given letters are present.
func (b Block) Has(ws ...byte) bool {
	for _, w := range ws {
		if ok, _ := b.Arg(w); ok {
			return true
		}
	}
	return false
}

func (b Block) String() string {
	var sb strings.Builder
	for _, g := range b {
		sb.WriteString(g.String())
	}
	return sb.String()
}
