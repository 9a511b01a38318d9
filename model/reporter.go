package model

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Reporter receives per-line progress while a script is checked
type Reporter interface {
	Printf(format string, args ...any)
}

// SilentReporter does not output any progress
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...any) {}

// ColorReporter writes dimmed progress lines to a writer (typically stderr)
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Printf(format string, args ...any) {
	fmt.Fprint(r.Writer, color.Gray.Sprintf(format, args...))
}
