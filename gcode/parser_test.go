package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		kind  Kind
		args  Block
	}{
		{input: "G0 X10 Y20", ok: true, kind: Rapid, args: Block{{W: 'X', Arg: 10}, {W: 'Y', Arg: 20}}},
		{input: "g1 x-1.5 e.25 f3000", ok: true, kind: Linear, args: Block{{W: 'X', Arg: -1.5}, {W: 'E', Arg: .25}}},
		{input: "G1 Z+0.2", ok: true, kind: Linear, args: Block{{W: 'Z', Arg: 0.2}}},
		{input: "G2 J-5 I5 Y1 X2", ok: true, kind: ArcCW, args: Block{{W: 'X', Arg: 2}, {W: 'Y', Arg: 1}, {W: 'I', Arg: 5}, {W: 'J', Arg: -5}}},
		{input: "  G3 X1 Y1 I1 ; X99 Y99", ok: true, kind: ArcCCW, args: Block{{W: 'X', Arg: 1}, {W: 'Y', Arg: 1}, {W: 'I', Arg: 1}}},
		{input: "G1 X10.", ok: true, kind: Linear, args: Block{{W: 'X', Arg: 10}}},
		{input: "G1", ok: true, kind: Linear},
		{input: "G28", ok: false},
		{input: "G29 X10", ok: false},
		{input: "G4 P100", ok: false},
		{input: "M104 S200", ok: false},
		{input: "; G1 X10", ok: false},
		{input: "", ok: false},
		{input: "X10 G1", ok: false},
	}

	for _, tc := range tests {
		cmd, ok := ParseLine(Line{Number: 7, Text: tc.input})
		if !assert.Equal(t, tc.ok, ok, tc.input) || !ok {
			continue
		}
		assert.Equal(t, tc.kind, cmd.Kind, tc.input)
		assert.Equal(t, tc.args, cmd.Args, tc.input)
		assert.Equal(t, 7, cmd.Line)
		assert.Equal(t, tc.input, cmd.Text)
	}
}

func TestCommand(t *testing.T) {
	c := MustParse("G2 X5 I3\nG2 X5\nG1 E4\nG0 Z1\n")

	assert.Len(t, c, 4)
	assert.True(t, c[0].IsArc())
	assert.False(t, c[1].IsArc())
	assert.False(t, c[2].Moves())
	assert.True(t, c[3].Moves())
	assert.False(t, c[3].HasXY())
	assert.Equal(t, "G2X5I3", c[0].String())
	assert.Equal(t, 4, c[3].Line)
}

func TestKind_Text(t *testing.T) {
	data, err := ArcCCW.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "G3", string(data))

	var k Kind
	assert.NoError(t, k.UnmarshalText([]byte("G2")))
	assert.Equal(t, ArcCW, k)
	assert.Error(t, k.UnmarshalText([]byte("G28")))
}
