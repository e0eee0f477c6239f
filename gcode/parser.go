package gcode

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads numbered lines from an io.Reader.
type Parser struct {
	br *bufio.Reader
	n  int
}

var _ Reader = &Parser{}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

// ReadLine returns the next line with its trailing line break removed.
func (p *Parser) ReadLine() (Line, error) {
	s, err := p.br.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return Line{}, err
	}
	p.n++

	return Line{Number: p.n, Text: strings.TrimRight(s, "\r\n")}, nil
}

var (
	rxMotion = regexp.MustCompile(`^G([0-3])\b`)

	// one expression per parameter letter, the first occurrence wins
	rxArgs = func() map[byte]*regexp.Regexp {
		m := make(map[byte]*regexp.Regexp, len(argLetters))
		for _, w := range argLetters {
			m[w] = regexp.MustCompile(string(w) + `([-+]?\d*\.?\d+)`)
		}
		return m
	}()
)

// argLetters are the parameters extracted from a motion command, in order.
var argLetters = []byte{'X', 'Y', 'Z', 'E', 'I', 'J'}

// ParseLine decomposes a line into a motion command.
//
// Anything after ';' is ignored. The line is only a motion command if it starts
// with G0, G1, G2 or G3 followed by a word boundary, so G28 and friends are
// skipped. It returns false for anything that is not a motion command.
func ParseLine(l Line) (Command, bool) {
	s := l.Text
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Command{}, false
	}

	m := rxMotion.FindStringSubmatch(s)
	if m == nil {
		return Command{}, false
	}

	cmd := Command{
		Kind: Kind(m[1][0] - '0'),
		Line: l.Number,
		Text: l.Text,
	}
	for _, w := range argLetters {
		v := rxArgs[w].FindStringSubmatch(s)
		if v == nil {
			continue
		}
		f, err := strconv.ParseFloat(v[1], 64)
		if err != nil {
			continue
		}
		cmd.Args = append(cmd.Args, Word{W: w, Arg: f})
	}

	return cmd, true
}
