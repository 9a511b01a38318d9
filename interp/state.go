package interp

import (
	"io"
	"slices"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/forth/vm"
)

// State is a committed interpreter state: the operand stack and every
// word definition, sorted by name so that equal states serialize equally.
type State struct {
	Stack []int
	Words []WordDef
}

type WordDef struct {
	Name   string
	Tokens []string
}

func NewState(stack []vm.IntValue, dict *vm.Dictionary) *State {
	s := &State{
		Stack: make([]int, len(stack)),
	}
	for i, v := range stack {
		s.Stack[i] = int(v)
	}
	if dict == nil {
		return s
	}
	for _, name := range dict.Names() {
		w, _ := dict.Lookup(name)
		s.Words = append(s.Words, WordDef{Name: name, Tokens: slices.Clone(w.Tokens)})
	}
	return s
}

func (s *State) Clone() *State {
	out := &State{
		Stack: slices.Clone(s.Stack),
	}
	for _, w := range s.Words {
		out.Words = append(out.Words, WordDef{Name: w.Name, Tokens: slices.Clone(w.Tokens)})
	}
	return out
}

// Values returns the stack as VM values.
func (s *State) Values() []vm.IntValue {
	out := make([]vm.IntValue, len(s.Stack))
	for i, v := range s.Stack {
		out[i] = vm.IntValue(v)
	}
	return out
}

// Dictionary rebuilds the word definitions without re-expanding them.
func (s *State) Dictionary() *vm.Dictionary {
	d := vm.NewDictionary()
	for _, w := range s.Words {
		d.Set(w.Name, w.Tokens)
	}
	return d
}

func (s *State) WordNames() []string {
	out := make([]string, len(s.Words))
	for i, w := range s.Words {
		out[i] = w.Name
	}
	return out
}

func (s *State) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *State) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}
