package vm

import (
	"fmt"
	"strings"
)

type Op struct {
	Code Opcode
	Arg  Value
}

func (o Op) String() string {
	if o.Arg == nil {
		return o.Code.String()
	}
	return fmt.Sprintf("%s %v", o.Code, o.Arg)
}

// Tokenize splits a source line into case-folded tokens.
func Tokenize(line string) []string {
	return strings.Fields(strings.ToLower(line))
}

// Classify resolves a token that is not a user word: an integer literal,
// a primitive, or an UNKNOWN op carrying the token for error reporting.
func Classify(tok string) Op {
	if n, ok := ParseInt(tok); ok {
		return Op{Code: PUSH, Arg: n}
	}
	if code, ok := Primitives[tok]; ok {
		return Op{Code: code}
	}
	return Op{Code: UNKNOWN, Arg: StrValue(tok)}
}

// Compile lowers tokens into a program. User words are spliced in from their
// stored code; nothing in a stored definition is looked up again.
func Compile(tokens []string, dict *Dictionary) *Program {
	p := &Program{}
	for _, tok := range tokens {
		if dict != nil {
			if w, ok := dict.Lookup(tok); ok {
				p.Bytecode = append(p.Bytecode, w.Code...)
				continue
			}
		}
		p.Bytecode = append(p.Bytecode, Classify(tok))
	}
	return p
}

func compileBody(tokens []string) []Op {
	ops := make([]Op, 0, len(tokens))
	for _, tok := range tokens {
		ops = append(ops, Classify(tok))
	}
	return ops
}
