// Package report renders analysis results for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mastercactapus/gcbounds/toolpath"
	"github.com/mastercactapus/gcbounds/vm"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DefaultLimit is the number of detailed violations shown on a terminal.
const DefaultLimit = 50

const rule = "======================================================================"

// Label describes the move a violation happened on.
func Label(v toolpath.Violation) string {
	if v.Arc {
		return v.Kind.String()
	}
	return v.Move.String()
}

// Detail formats a single violation over four lines.
func Detail(v toolpath.Violation) string {
	return fmt.Sprintf("Line %d: %s - %s\n  Position: X=%.3f Y=%.3f Z=%.3f E=%.3f\n  Out by: %.3f mm\n  G-code: %s",
		v.Line, Label(v), v.Tags,
		v.Position.X, v.Position.Y, v.Position.Z, v.Position.E,
		v.Distance,
		strings.TrimSpace(v.Text),
	)
}

// WriteText writes a summary followed by at most limit detailed violations.
// A limit <= 0 writes all of them.
func WriteText(w io.Writer, rep *toolpath.Report, limit int) error {
	var b strings.Builder
	s := rep.Stats

	fmt.Fprintln(&b, "Build volume:", rep.Volume)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Lines: %d\n", s.Lines)
	fmt.Fprintf(&b, "Total moves: %d\n", s.Moves)
	fmt.Fprintf(&b, "  - Travel moves: %d\n", s.Travel)
	fmt.Fprintf(&b, "  - Extrude moves: %d\n", s.Depositing)
	fmt.Fprintf(&b, "  - Other: %d\n", s.Other())
	fmt.Fprintf(&b, "\nViolations found: %d\n", len(rep.Violations))

	if len(rep.Violations) == 0 {
		fmt.Fprintln(&b, "\nAll moves are inside the build volume.")
		return write(w, b.String())
	}

	linearOnly := func(k vm.MoveKind) func(toolpath.Violation, int) bool {
		return func(v toolpath.Violation, _ int) bool { return !v.Arc && v.Move == k }
	}
	fmt.Fprintf(&b, "  - Travel violations: %d\n", len(lo.Filter(rep.Violations, linearOnly(vm.Travel))))
	fmt.Fprintf(&b, "  - Extrude violations: %d\n", len(lo.Filter(rep.Violations, linearOnly(vm.Depositing))))

	fmt.Fprintln(&b, "\nViolations by type:")
	for _, tc := range s.ByTag {
		fmt.Fprintf(&b, "  %s: %d\n", tc.Tag, tc.Count)
	}

	shown := rep.Violations
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Fprintln(&b, "\n"+rule)
	if len(shown) < len(rep.Violations) {
		fmt.Fprintf(&b, "Violations (first %d):\n", len(shown))
	} else {
		fmt.Fprintln(&b, "Violations:")
	}
	fmt.Fprintln(&b, rule)

	details := lo.Map(shown, func(v toolpath.Violation, i int) string {
		return fmt.Sprintf("\n[%d] %s\n", i+1, Detail(v))
	})
	b.WriteString(strings.Join(details, ""))

	if rest := len(rep.Violations) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n... %d more violations not shown\n", rest)
	}

	return write(w, b.String())
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, rep *toolpath.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rep), "encode report")
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return errors.Wrap(err, "write report")
}
