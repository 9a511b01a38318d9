package vm

import (
	"errors"
	"fmt"
	"io"
)

type Program struct {
	Bytecode []Op
}

func (p *Program) DebugPrint(w io.Writer) {
	for i, b := range p.Bytecode {
		fmt.Fprintf(w, "  %03d: %s\n", i, b)
	}
}

var ErrEndOfCode = errors.New("End of code block")

func (p *Program) GetInstruction(pc int) (Op, error) {
	if pc < 0 || len(p.Bytecode) <= pc {
		return Op{}, ErrEndOfCode
	}
	return p.Bytecode[pc], nil
}

func (p *Program) Len() int {
	return len(p.Bytecode)
}
