package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/forth"
	"github.com/timewinder-dev/forth/cas"
	"github.com/timewinder-dev/forth/interp"
)

// An Executor is the context and entrypoint for checking a script
type Executor struct {
	Spec       *Spec
	Properties []*Property
	Store      cas.CAS
	Reporter   Reporter
	Forth      *forth.Forth

	KeepGoing   bool
	ShowDetails bool
}

type TraceStep struct {
	Line      int
	Source    string
	StateHash cas.Hash
}

type PropertyViolation struct {
	PropertyName string
	PropertyType string
	Message      string
	Line         int
	Source       string
	StateHash    cas.Hash
	State        *interp.State
	Trace        []TraceStep

	ShowDetails bool
	CAS         cas.CAS
}

type Statistics struct {
	Lines          int
	Definitions    int
	Executions     int
	Errors         int
	DistinctStates int
	ViolationCount int
	Duration       time.Duration
}

type Result struct {
	Success    bool
	Violations []PropertyViolation
	Errors     []*forth.LineError
	FinalStack []int
	FinalHash  cas.Hash
	Trace      []TraceStep
	Statistics Statistics
}

var errorNames = map[string]error{
	"division_by_zero": forth.ErrDivisionByZero,
	"stack_underflow":  forth.ErrStackUnderflow,
	"unknown_word":     forth.ErrUnknownWord,
	"invalid_word":     forth.ErrInvalidWord,
}

// ErrorByName maps the names used in check files onto interpreter errors.
func ErrorByName(name string) (error, bool) {
	err, ok := errorNames[strings.ToLower(name)]
	return err, ok
}

// Run checks the script named in the check file.
func (e *Executor) Run() (*Result, error) {
	f, err := os.Open(e.Spec.Spec.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.RunScript(f)
}

type checkRun struct {
	e       *Executor
	result  *Result
	seen    map[cas.Hash]bool
	settled map[*Property]bool
	holding map[*Property]bool
	broken  map[*Property]bool
	state   *interp.State
	stop    bool
}

func (e *Executor) RunScript(r io.Reader) (*Result, error) {
	start := time.Now()
	if e.Store == nil {
		e.Store = cas.NewMemoryCAS()
	}
	if e.Reporter == nil {
		e.Reporter = &SilentReporter{}
	}
	e.Forth = forth.New(forth.WithCarryStack(e.Spec.Spec.CarryStack))
	for i, line := range e.Spec.Spec.Prelude {
		if err := e.Forth.Eval(line); err != nil {
			return nil, fmt.Errorf("prelude: %w", &forth.LineError{Line: i + 1, Source: line, Err: err})
		}
	}

	run := &checkRun{
		e:       e,
		result:  &Result{},
		seen:    make(map[cas.Hash]bool),
		settled: make(map[*Property]bool),
		holding: make(map[*Property]bool),
		broken:  make(map[*Property]bool),
	}
	if err := run.commit(0, ""); err != nil {
		return nil, err
	}

	stats := &run.result.Statistics
	err := forth.ReadLines(r, func(n int, line string) error {
		if run.stop {
			return forth.ErrStopLines
		}
		if forth.IsComment(line) {
			return nil
		}
		src := strings.TrimSpace(line)
		stats.Lines++
		if err := e.Forth.Eval(src); err != nil {
			le := &forth.LineError{Line: n, Source: src, Err: err}
			run.result.Errors = append(run.result.Errors, le)
			stats.Errors++
			e.Reporter.Printf("line %d: %v\n", n, err)
			log.Debug().Int("line", n).Str("source", src).Err(err).Msg("line failed")
			if !e.KeepGoing {
				return forth.ErrStopLines
			}
			return nil
		}
		if strings.HasPrefix(src, ":") {
			stats.Definitions++
		} else {
			stats.Executions++
		}
		if err := run.commit(n, src); err != nil {
			return err
		}
		e.Reporter.Printf("line %d: %v\n", n, e.Forth.Stack())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := run.finish(); err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	return run.result, nil
}

// commit records the current committed state and checks Always properties
// against it.
func (c *checkRun) commit(line int, src string) error {
	state := c.e.Forth.Snapshot()
	h, err := c.e.Store.Put(state)
	if err != nil {
		return fmt.Errorf("storing state after line %d: %w", line, err)
	}
	c.state = state
	c.seen[h] = true
	c.result.Trace = append(c.result.Trace, TraceStep{Line: line, Source: src, StateHash: h})
	c.result.FinalHash = h
	log.Debug().Int("line", line).Str("hash", h.String()).Ints("stack", state.Stack).Msg("committed state")

	for _, p := range c.e.Properties {
		switch p.Kind {
		case Always, Eventually, EventuallyAlways:
		default:
			continue
		}
		res, err := p.Check(state, line)
		if err != nil {
			return err
		}
		switch p.Kind {
		case Always:
			if !res.Success && !c.broken[p] {
				c.broken[p] = true
				c.violate(p, res.Message)
			}
		case Eventually:
			if res.Success {
				c.settled[p] = true
			}
		case EventuallyAlways:
			c.holding[p] = res.Success
		}
	}
	return nil
}

func (c *checkRun) violate(p *Property, message string) {
	c.violation(p.Name, p.Kind.String(), message)
}

func (c *checkRun) violation(name, kind, message string) {
	step := c.result.Trace[len(c.result.Trace)-1]
	c.result.Violations = append(c.result.Violations, PropertyViolation{
		PropertyName: name,
		PropertyType: kind,
		Message:      message,
		Line:         step.Line,
		Source:       step.Source,
		StateHash:    step.StateHash,
		State:        c.state.Clone(),
		Trace:        slices.Clone(c.result.Trace),
		ShowDetails:  c.e.ShowDetails,
		CAS:          c.e.Store,
	})
	c.result.Statistics.ViolationCount++
	if !c.e.KeepGoing {
		c.stop = true
	}
}

func (c *checkRun) finish() error {
	final := c.state
	lastLine := c.result.Trace[len(c.result.Trace)-1].Line
	for _, p := range c.e.Properties {
		if c.stop && !c.e.KeepGoing {
			break
		}
		switch p.Kind {
		case Eventually:
			if !c.settled[p] {
				c.violate(p, fmt.Sprintf("Property %s never held: %s", p.Name, p.ExprString))
			}
		case EventuallyAlways:
			if !c.holding[p] {
				c.violate(p, fmt.Sprintf("Property %s does not hold at the end: %s", p.Name, p.ExprString))
			}
		case AlwaysEventually:
			res, err := p.Check(final, lastLine)
			if err != nil {
				return err
			}
			if !res.Success {
				c.violate(p, res.Message)
			}
		}
	}

	expectErrorMet := true
	expect := c.e.Spec.Expect
	if expect.Error != "" && !(c.stop && !c.e.KeepGoing && len(c.result.Violations) > 0) {
		want, _ := ErrorByName(expect.Error)
		switch {
		case len(c.result.Errors) == 0:
			expectErrorMet = false
			c.violation("expect", "Expect", fmt.Sprintf("expected %s, script succeeded", expect.Error))
		case !errors.Is(c.result.Errors[0].Err, want):
			expectErrorMet = false
			c.violation("expect", "Expect", fmt.Sprintf("expected %s, got: %v", expect.Error, c.result.Errors[0]))
		}
	}
	if expect.Stack != nil && !(c.stop && !c.e.KeepGoing && len(c.result.Violations) > 0) {
		if !slices.Equal(*expect.Stack, final.Stack) {
			c.violation("expect", "Expect", fmt.Sprintf("expected stack %v, got %v", *expect.Stack, final.Stack))
		}
	}

	c.result.FinalStack = slices.Clone(final.Stack)
	c.result.Statistics.DistinctStates = len(c.seen)
	failedLines := len(c.result.Errors) > 0 && expect.Error == ""
	c.result.Success = len(c.result.Violations) == 0 && !failedLines && expectErrorMet
	return nil
}
