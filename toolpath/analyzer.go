package toolpath

import (
	"context"
	"io"

	"github.com/mastercactapus/gcbounds/coord"
	"github.com/mastercactapus/gcbounds/gcode"
	"github.com/mastercactapus/gcbounds/vm"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProgressInterval is how many lines are processed between Observer calls.
const ProgressInterval = 100

// Observer is notified of progress during Run.
type Observer interface {
	Progress(line, total int)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(line, total int)

func (f ObserverFunc) Progress(line, total int) { f(line, total) }

type Config struct {
	Volume volume.Volume

	// Reader is only needed for Run.
	Reader gcode.Reader

	// TotalLines is passed through to the Observer.
	TotalLines int
	Observer   Observer

	Logger logrus.FieldLogger
}

// Analyzer walks a toolpath line by line and collects violations.
//
// An Analyzer is not safe for concurrent use; run one per input.
type Analyzer struct {
	eval Evaluator
	m    *vm.Machine

	r     gcode.Reader
	total int
	obs   Observer
	log   logrus.FieldLogger

	lines      int
	violations []Violation
	stats      statsCounter
}

func New(cfg Config) *Analyzer {
	a := &Analyzer{
		eval:  Evaluator{Volume: cfg.Volume},
		m:     vm.NewMachine(),
		r:     cfg.Reader,
		total: cfg.TotalLines,
		obs:   cfg.Observer,
		log:   cfg.Logger,
		stats: newStatsCounter(),
	}
	if a.log == nil {
		l := logrus.New()
		l.Out = io.Discard
		a.log = l
	}
	return a
}

// Pos returns the current tool head position.
func (a *Analyzer) Pos() coord.Point { return a.m.Pos() }

// Step processes a single line and returns the violation it caused, if any.
// Lines must be given in order.
func (a *Analyzer) Step(l gcode.Line) *Violation {
	a.lines++

	c, ok := gcode.ParseLine(l)
	if !ok {
		return nil
	}

	var mv Move
	if c.IsArc() {
		mv = a.eval.Arc(a.m.Pos(), c)
		if mv.Arc.Degenerate() {
			a.log.WithFields(logrus.Fields{"line": l.Number, "text": l.Text}).Debug("zero radius arc, checking end point only")
		}
	} else {
		old, next, ok := a.m.Apply(c)
		if !ok {
			return nil
		}
		mv = a.eval.Linear(c, old, next)
	}

	a.m.Commit(mv.To)
	a.stats.move(mv.Kind)
	if mv.Violation == nil {
		return nil
	}

	a.stats.violation(mv.Violation.Tags)
	a.violations = append(a.violations, *mv.Violation)
	return mv.Violation
}

// Run reads lines until EOF. If ctx is cancelled or the reader fails, the
// report so far is returned along with the error.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	if a.r == nil {
		return nil, errors.New("analyzer has no reader")
	}

	for {
		select {
		case <-ctx.Done():
			return a.Report(), ctx.Err()
		default:
		}

		l, err := a.r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return a.Report(), errors.Wrapf(err, "read line %d", a.lines+1)
		}

		a.Step(l)
		if a.obs != nil && l.Number%ProgressInterval == 0 {
			a.obs.Progress(l.Number, a.total)
		}
	}

	rep := a.Report()
	a.log.WithFields(logrus.Fields{
		"lines":      rep.Stats.Lines,
		"moves":      rep.Stats.Moves,
		"violations": len(rep.Violations),
	}).Info("analysis complete")

	return rep, nil
}

// Report returns a snapshot of the results so far.
func (a *Analyzer) Report() *Report {
	v := make([]Violation, len(a.violations))
	copy(v, a.violations)

	s := a.stats.Stats
	s.Lines = a.lines
	s.ByTag = a.stats.byTag()

	return &Report{
		Volume:     a.eval.Volume.String(),
		Violations: v,
		Stats:      s,
	}
}
