package forth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LineError locates a failure inside a multi-line script.
type LineError struct {
	Line   int
	Source string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Source, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// IsComment reports whether a script line carries no code.
func IsComment(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, `\`)
}

// ErrStopLines ends ReadLines early without reporting an error.
var ErrStopLines = errors.New("stop reading lines")

// ReadLines calls fn with each line of r, numbered from 1, without the line
// terminator. Lines may be any length.
func ReadLines(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if line != "" || err == nil {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if ferr := fn(n, line); ferr != nil {
				if errors.Is(ferr, ErrStopLines) {
					return nil
				}
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// EvalReader evaluates r line by line and stops at the first failure.
func (f *Forth) EvalReader(r io.Reader) error {
	return ReadLines(r, func(n int, line string) error {
		if IsComment(line) {
			return nil
		}
		if err := f.Eval(line); err != nil {
			return &LineError{Line: n, Source: strings.TrimSpace(line), Err: err}
		}
		return nil
	})
}
