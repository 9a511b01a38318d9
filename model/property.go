package model

import (
	"fmt"
	"sort"

	"github.com/timewinder-dev/forth/interp"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type PropertyKind int

const (
	Always PropertyKind = iota
	Eventually
	EventuallyAlways
	AlwaysEventually
)

func (k PropertyKind) String() string {
	switch k {
	case Always:
		return "Always"
	case Eventually:
		return "Eventually"
	case EventuallyAlways:
		return "EventuallyAlways"
	case AlwaysEventually:
		return "AlwaysEventually"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

type PropertyResult struct {
	Success bool
	Message string
	Name    string
}

// Property is a Starlark boolean expression over one committed state.
// Predeclared names: stack, depth, top (None when empty), words, line.
type Property struct {
	Name       string
	Kind       PropertyKind
	ExprString string
}

var fileOptions = &syntax.FileOptions{}

func NewProperty(name string, kind PropertyKind, src string) (*Property, error) {
	if _, err := fileOptions.ParseExpr(name, src, 0); err != nil {
		return nil, fmt.Errorf("Property %s: %w", name, err)
	}
	return &Property{
		Name:       name,
		Kind:       kind,
		ExprString: src,
	}, nil
}

func (p *Property) Check(state *interp.State, line int) (PropertyResult, error) {
	thread := &starlark.Thread{Name: p.Name}
	val, err := starlark.EvalOptions(fileOptions, thread, p.Name, p.ExprString, predeclared(state, line))
	if err != nil {
		return PropertyResult{}, fmt.Errorf("Property %s: %w", p.Name, err)
	}
	b, ok := val.(starlark.Bool)
	if !ok {
		return PropertyResult{}, fmt.Errorf("Property %s: check returned %s, not bool", p.Name, val.Type())
	}
	if b {
		return PropertyResult{
			Success: true,
			Name:    p.Name,
			Message: fmt.Sprintf("Property %s satisfied", p.Name),
		}, nil
	}
	return PropertyResult{
		Success: false,
		Name:    p.Name,
		Message: fmt.Sprintf("Property %s violated: %s is false", p.Name, p.ExprString),
	}, nil
}

func predeclared(state *interp.State, line int) starlark.StringDict {
	stack := make([]starlark.Value, len(state.Stack))
	for i, v := range state.Stack {
		stack[i] = starlark.MakeInt(v)
	}
	words := make([]starlark.Value, len(state.Words))
	for i, w := range state.Words {
		words[i] = starlark.String(w.Name)
	}
	var top starlark.Value = starlark.None
	if n := len(state.Stack); n > 0 {
		top = starlark.MakeInt(state.Stack[n-1])
	}
	return starlark.StringDict{
		"stack": starlark.NewList(stack),
		"depth": starlark.MakeInt(len(state.Stack)),
		"top":   top,
		"words": starlark.NewList(words),
		"line":  starlark.MakeInt(line),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
