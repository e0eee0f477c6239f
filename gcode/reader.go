package gcode

import "io"

// Line is a raw line of input and its 1-based line number.
type Line struct {
	Number int
	Text   string
}

// Reader is a source of numbered lines. ReadLine returns io.EOF when done.
type Reader interface {
	ReadLine() (Line, error)
}

// LinesReader numbers a fixed set of lines starting at 1.
type LinesReader struct {
	Lines []string
	n     int
}

func (l *LinesReader) ReadLine() (Line, error) {
	if l.n == len(l.Lines) {
		return Line{}, io.EOF
	}

	l.n++
	return Line{Number: l.n, Text: l.Lines[l.n-1]}, nil
}
