// Package forth is a small stack language interpreter in the Forth tradition.
//
// A line is either a definition, ": NAME BODY... ;", or a sequence of
// integer literals, primitives (+ - * / dup drop swap over) and user words
// executed against an operand stack. Each Eval call is all or nothing: on
// failure the committed stack and dictionary are left untouched.
package forth

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/forth/interp"
	"github.com/timewinder-dev/forth/vm"
)

var (
	ErrDivisionByZero = vm.ErrDivisionByZero
	ErrStackUnderflow = vm.ErrStackUnderflow
	ErrUnknownWord    = vm.ErrUnknownWord
	ErrInvalidWord    = vm.ErrInvalidWord
)

// Forth is a single interpreter instance. It is not safe for concurrent use.
type Forth struct {
	ID uuid.UUID

	dict  *vm.Dictionary
	stack []vm.IntValue
	carry bool
}

// New returns an empty interpreter with its own dictionary.
func New(opts ...Option) *Forth {
	f := &Forth{
		ID:   uuid.New(),
		dict: vm.NewDictionary(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(f)
		}
	}
	return f
}

// Eval runs one line of source.
func (f *Forth) Eval(line string) error {
	src := strings.TrimSpace(strings.ToLower(line))
	if strings.HasPrefix(src, ":") {
		return f.define(src)
	}
	return f.execute(src)
}

func (f *Forth) define(src string) error {
	tokens := vm.Tokenize(strings.Trim(src, " :;"))
	w, err := f.dict.Define(tokens)
	if err != nil {
		log.Debug().Str("id", f.ID.String()).Str("line", src).Err(err).Msg("definition rejected")
		return err
	}
	log.Debug().Str("id", f.ID.String()).Str("word", w.Name).Strs("tokens", w.Tokens).Msg("defined word")
	return nil
}

func (f *Forth) execute(src string) error {
	prog := vm.Compile(vm.Tokenize(src), f.dict)
	var frame *interp.StackFrame
	if f.carry {
		frame = interp.NewFrame(f.stack)
	} else {
		frame = &interp.StackFrame{}
	}
	if err := interp.RunToEnd(prog, frame); err != nil {
		log.Debug().Str("id", f.ID.String()).Str("line", src).Err(err).Msg("evaluation failed")
		return err
	}
	f.stack = frame.Stack
	log.Debug().Str("id", f.ID.String()).Int("ops", prog.Len()).Interface("stack", f.stack).Msg("evaluated")
	return nil
}

// Stack returns a copy of the last committed stack, bottom first.
func (f *Forth) Stack() []int {
	out := make([]int, len(f.stack))
	for i, v := range f.stack {
		out[i] = int(v)
	}
	return out
}

// Words lists the defined words in sorted order.
func (f *Forth) Words() []string {
	return f.dict.Names()
}

// Definition returns the expanded token list stored for name.
func (f *Forth) Definition(name string) ([]string, bool) {
	w, ok := f.dict.Lookup(strings.ToLower(name))
	if !ok {
		return nil, false
	}
	return slices.Clone(w.Tokens), true
}

// Snapshot captures the committed stack and dictionary.
func (f *Forth) Snapshot() *interp.State {
	return interp.NewState(f.stack, f.dict)
}

// Restore replaces the stack and dictionary with those of s.
func (f *Forth) Restore(s *interp.State) {
	f.stack = s.Values()
	f.dict = s.Dictionary()
	log.Debug().Str("id", f.ID.String()).Int("depth", len(f.stack)).Int("words", f.dict.Len()).Msg("restored state")
}
