package gcode

import (
	"strconv"
	"strings"
)

// Word is a single letter/value pair from a motion command, such as X10.5.
type Word struct {
	W   byte
	Arg float64
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	return strings.TrimRight(s, ".")
}

func (w Word) String() string {
	return string(w.W) + formatFloat(w.Arg, 3)
}
