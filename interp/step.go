package interp

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/forth/vm"
)

type StepResult int

const (
	ContinueStep StepResult = iota
	EndStep
	ErrorStep
)

func (r StepResult) String() string {
	switch r {
	case ContinueStep:
		return "Continue"
	case EndStep:
		return "End"
	case ErrorStep:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// Step executes the instruction at frame.PC and advances the PC past it.
func Step(prog *vm.Program, frame *StackFrame) (StepResult, error) {
	inst, err := prog.GetInstruction(frame.PC)
	if err != nil {
		if errors.Is(err, vm.ErrEndOfCode) {
			log.Trace().Int("pc", frame.PC).Msg("Step: end of code")
			return EndStep, nil
		}
		return ErrorStep, err
	}

	log.Trace().
		Str("opcode", inst.Code.String()).
		Int("pc", frame.PC).
		Interface("arg", inst.Arg).
		Int("stack_depth", len(frame.Stack)).
		Interface("stack", frame.Stack).
		Msg("Step: executing instruction")

	if n := inst.Code.Arity(); len(frame.Stack) < n {
		log.Trace().Str("opcode", inst.Code.String()).Int("need", n).Interface("stack", frame.Stack).Msg("  underflow")
		return ErrorStep, fmt.Errorf("%w: %s needs %d value(s), have %d", vm.ErrStackUnderflow, inst.Code, n, len(frame.Stack))
	}

	switch inst.Code {
	case vm.NOP:
	case vm.PUSH:
		n, ok := inst.Arg.(vm.IntValue)
		if !ok {
			return ErrorStep, fmt.Errorf("Error in compilation; PUSH should carry an int, got %T", inst.Arg)
		}
		frame.Push(n)
		log.Trace().Interface("value", n).Interface("stack", frame.Stack).Msg("  PUSH")
	case vm.ADD, vm.SUBTRACT, vm.MULTIPLY, vm.DIVIDE:
		b := frame.Pop()
		a := frame.Pop()
		v, err := intOp(inst.Code, a, b)
		if err != nil {
			log.Trace().Str("op", inst.Code.String()).Interface("a", a).Interface("b", b).Err(err).Msg("  NUMERIC_OP: error")
			return ErrorStep, err
		}
		frame.Push(v)
		log.Trace().Str("op", inst.Code.String()).Interface("a", a).Interface("b", b).Interface("result", v).Interface("stack", frame.Stack).Msg("  NUMERIC_OP")
	case vm.SWAP:
		b := frame.Pop()
		a := frame.Pop()
		frame.Push(b)
		frame.Push(a)
		log.Trace().Interface("stack", frame.Stack).Msg("  SWAP")
	case vm.OVER:
		b := frame.Pop()
		a := frame.Pop()
		frame.Push(a)
		frame.Push(b)
		frame.Push(a)
		log.Trace().Interface("stack", frame.Stack).Msg("  OVER")
	case vm.DUP:
		frame.Push(frame.Peek())
		log.Trace().Interface("stack", frame.Stack).Msg("  DUP")
	case vm.DROP:
		v := frame.Pop()
		log.Trace().Interface("value", v).Interface("stack", frame.Stack).Msg("  DROP")
	case vm.UNKNOWN:
		log.Trace().Interface("word", inst.Arg).Msg("  UNKNOWN")
		return ErrorStep, fmt.Errorf("%w: %v", vm.ErrUnknownWord, inst.Arg)
	default:
		return ErrorStep, fmt.Errorf("unhandled opcode %s", inst.Code)
	}
	frame.PC++
	return ContinueStep, nil
}

func intOp(op vm.Opcode, a, b vm.IntValue) (vm.IntValue, error) {
	switch op {
	case vm.ADD:
		return a + b, nil
	case vm.SUBTRACT:
		return a - b, nil
	case vm.MULTIPLY:
		return a * b, nil
	case vm.DIVIDE:
		if b == 0 {
			return 0, fmt.Errorf("%w: %d / 0", vm.ErrDivisionByZero, a)
		}
		return a / b, nil
	}
	panic("Unhandled intOp code")
}
