package interp

import (
	"slices"

	"github.com/timewinder-dev/forth/vm"
)

type StackFrame struct {
	Stack []vm.IntValue
	PC    int
}

func NewFrame(stack []vm.IntValue) *StackFrame {
	return &StackFrame{
		Stack: slices.Clone(stack),
	}
}

func (f *StackFrame) Pop() vm.IntValue {
	if len(f.Stack) == 0 {
		panic("Stack underrun")
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v
}

func (f *StackFrame) Push(v vm.IntValue) {
	f.Stack = append(f.Stack, v)
}

func (f *StackFrame) Peek() vm.IntValue {
	if len(f.Stack) == 0 {
		panic("Stack underrun")
	}
	return f.Stack[len(f.Stack)-1]
}

func (f *StackFrame) Depth() int {
	return len(f.Stack)
}

func (f *StackFrame) Clone() *StackFrame {
	return &StackFrame{
		Stack: slices.Clone(f.Stack),
		PC:    f.PC,
	}
}
