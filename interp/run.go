package interp

import (
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/forth/vm"
)

// RunToEnd executes prog against frame until the code runs out or an
// instruction fails. On failure frame holds the partial working stack.
func RunToEnd(prog *vm.Program, frame *StackFrame) error {
	stepCount := 0
	for {
		stepCount++
		res, err := Step(prog, frame)
		if err != nil {
			log.Trace().Int("step", stepCount).Err(err).Msg("RunToEnd: step error")
			return err
		}
		if res == EndStep {
			log.Trace().Int("steps", stepCount-1).Interface("stack", frame.Stack).Msg("RunToEnd: finished")
			return nil
		}
	}
}
