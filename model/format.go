package model

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/timewinder-dev/forth"
	"github.com/timewinder-dev/forth/cas"
	"github.com/timewinder-dev/forth/interp"
)

const (
	heavyRule = "================================================================================"
	lightRule = "--------------------------------------------------------------------------------"
)

// FormatStack renders a stack bottom to top, the way the REPL shows it.
func FormatStack(stack []int) string {
	if len(stack) == 0 {
		return "<empty>"
	}
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func writeState(w io.Writer, state *interp.State) {
	fmt.Fprintf(w, "stack: %s\n", FormatStack(state.Stack))
	if len(state.Words) == 0 {
		return
	}
	fmt.Fprint(w, "words:\n")
	for _, wd := range state.Words {
		fmt.Fprintf(w, "  : %s %s ;\n", wd.Name, strings.Join(wd.Tokens, " "))
	}
}

func section(b *strings.Builder, title string) {
	b.WriteString(color.Gray.Sprint(lightRule))
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint(title))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(lightRule))
	b.WriteString("\n")
}

// FormatPropertyViolation formats a single property violation for display
func FormatPropertyViolation(v PropertyViolation) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	b.WriteString(color.Red.Sprint("PROPERTY VIOLATION"))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Property: "))
	b.WriteString(color.Yellow.Sprintf("%s\n", v.PropertyName))

	if v.PropertyType != "" && v.PropertyType != "Always" {
		b.WriteString(color.Bold.Sprint("Type:     "))
		b.WriteString(fmt.Sprintf("%s\n", v.PropertyType))
	}

	b.WriteString(color.Bold.Sprint("Message:  "))
	b.WriteString(color.Red.Sprintf("%s\n", v.Message))
	b.WriteString(color.Bold.Sprint("Line:     "))
	if v.Line == 0 {
		b.WriteString("(prelude)\n")
	} else {
		b.WriteString(fmt.Sprintf("%d: %s\n", v.Line, v.Source))
	}
	b.WriteString(color.Bold.Sprint("Hash:     "))
	b.WriteString(fmt.Sprintf("%s\n", v.StateHash))
	b.WriteString("\n")

	section(&b, "Execution Trace:")
	if v.ShowDetails && v.CAS != nil {
		reconstructTrace(&b, v)
	} else {
		for i, step := range v.Trace {
			if step.Line == 0 {
				b.WriteString(fmt.Sprintf("  %2d. (prelude) → State %s\n", i+1, step.StateHash))
				continue
			}
			b.WriteString(fmt.Sprintf("  %2d. line %d %q → State %s\n", i+1, step.Line, step.Source, step.StateHash))
		}
		if v.State != nil {
			b.WriteString("\n")
			section(&b, "Final State:")
			writeState(&b, v.State)
		}
	}

	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	return b.String()
}

// reconstructTrace pulls every traced state back out of the store.
func reconstructTrace(w io.Writer, v PropertyViolation) {
	for i, step := range v.Trace {
		state, err := cas.Retrieve[interp.State](v.CAS, step.StateHash)
		if err != nil {
			fmt.Fprintf(w, "\n  Step %d: State %s (unavailable)\n", i+1, step.StateHash)
			continue
		}
		fmt.Fprintf(w, "\n  Step %d:\n", i+1)
		if step.Line == 0 {
			fmt.Fprint(w, "  ├─ Source: (prelude)\n")
		} else {
			fmt.Fprintf(w, "  ├─ Source: line %d: %s\n", step.Line, step.Source)
		}
		fmt.Fprintf(w, "  ├─ Hash: %s\n", step.StateHash)
		fmt.Fprint(w, "  └─ State:\n")
		writeState(&indentWriter{w: w, indent: "     ", atLineStart: true}, state)
	}
}

// indentWriter wraps an io.Writer to add indentation to each line
type indentWriter struct {
	w           io.Writer
	indent      string
	atLineStart bool
}

func (iw *indentWriter) Write(p []byte) (n int, err error) {
	total := 0
	for len(p) > 0 {
		if iw.atLineStart {
			if _, err := io.WriteString(iw.w, iw.indent); err != nil {
				return total, err
			}
			iw.atLineStart = false
		}
		idx := 0
		for idx < len(p) && p[idx] != '\n' {
			idx++
		}
		if idx < len(p) {
			idx++
			iw.atLineStart = true
		}
		written, err := iw.w.Write(p[:idx])
		total += written
		if err != nil {
			return total, err
		}
		p = p[idx:]
	}
	return total, nil
}

// FormatAllViolations formats all property violations for display
func FormatAllViolations(violations []PropertyViolation) string {
	if len(violations) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	b.WriteString(color.Red.Sprintf("PROPERTY VIOLATIONS FOUND: %d\n", len(violations)))
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")

	for i, v := range violations {
		b.WriteString(color.Yellow.Sprintf("\nViolation #%d:\n", i+1))
		b.WriteString(FormatPropertyViolation(v))
	}
	return b.String()
}

// FormatLineError reports a failed line along with the error kind.
func FormatLineError(err error) string {
	var le *forth.LineError
	if !errors.As(err, &le) {
		return color.Red.Sprintf("error: %v", err)
	}
	return color.Bold.Sprintf("line %d: ", le.Line) +
		color.Gray.Sprintf("%s\n  ", le.Source) +
		color.Red.Sprintf("%v", le.Err)
}

// FormatStatistics formats script checking statistics
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Check statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Lines evaluated: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Lines))
	b.WriteString(color.Bold.Sprint("Definitions: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Definitions))
	b.WriteString(color.Bold.Sprint("Executions: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Executions))
	b.WriteString(color.Bold.Sprint("Distinct states: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.DistinctStates))

	b.WriteString(color.Bold.Sprint("Failed lines: "))
	if stats.Errors > 0 {
		b.WriteString(color.Yellow.Sprintf("%d\n", stats.Errors))
	} else {
		b.WriteString(fmt.Sprintf("%d\n", stats.Errors))
	}
	b.WriteString(color.Bold.Sprint("Property violations found: "))
	if stats.ViolationCount > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", stats.ViolationCount))
	} else {
		b.WriteString(color.Green.Sprintf("%d\n", stats.ViolationCount))
	}
	b.WriteString(color.Bold.Sprint("Duration: "))
	b.WriteString(fmt.Sprintf("%s\n", stats.Duration))
	return b.String()
}
