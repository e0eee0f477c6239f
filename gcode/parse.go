package gcode

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Parse returns every motion command in data.
func Parse(data string) ([]Command, error) {
	r := NewParser(strings.NewReader(data))
	var c []Command
	for {
		l, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if cmd, ok := ParseLine(l); ok {
			c = append(c, cmd)
		}
	}
	return c, nil
}

func MustParse(data string) []Command {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// CountLines returns the number of lines ReadLine would produce for r.
func CountLines(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, 32*1024)
	var n int
	var last byte = '\n'
	for {
		c, err := br.Read(buf)
		if c > 0 {
			n += bytes.Count(buf[:c], []byte{'\n'})
			last = buf[c-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "count lines")
		}
	}
	if last != '\n' {
		n++
	}
	return n, nil
}
