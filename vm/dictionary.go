package vm

import (
	"fmt"
	"slices"
	"sort"
)

// A Word is an immutable, fully expanded definition. Redefinition replaces
// the *Word in the dictionary; earlier snapshots of it stay valid.
type Word struct {
	Name   string
	Tokens []string
	Code   []Op
}

type Dictionary struct {
	words map[string]*Word
}

func NewDictionary() *Dictionary {
	return &Dictionary{
		words: make(map[string]*Word),
	}
}

// Define registers a word from the tokens of a definition line, name first.
// Body tokens naming existing words are replaced by a copy of their current
// expansion.
func (d *Dictionary) Define(tokens []string) (*Word, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidWord)
	}
	name, body := tokens[0], tokens[1:]
	if _, ok := ParseInt(name); ok {
		return nil, fmt.Errorf("%w: cannot redefine number %s", ErrInvalidWord, name)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s has an empty body", ErrInvalidWord, name)
	}
	var expanded []string
	for _, tok := range body {
		if w, ok := d.words[tok]; ok {
			expanded = append(expanded, w.Tokens...)
			continue
		}
		expanded = append(expanded, tok)
	}
	return d.Set(name, expanded), nil
}

// Set installs an already expanded definition as is.
func (d *Dictionary) Set(name string, tokens []string) *Word {
	if d.words == nil {
		d.words = make(map[string]*Word)
	}
	w := &Word{
		Name:   name,
		Tokens: slices.Clone(tokens),
		Code:   compileBody(tokens),
	}
	d.words[name] = w
	return w
}

func (d *Dictionary) Lookup(name string) (*Word, bool) {
	w, ok := d.words[name]
	return w, ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

func (d *Dictionary) Names() []string {
	names := make([]string, 0, len(d.words))
	for name := range d.words {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone is shallow: words are immutable once stored.
func (d *Dictionary) Clone() *Dictionary {
	out := NewDictionary()
	for k, w := range d.words {
		out.words[k] = w
	}
	return out
}
