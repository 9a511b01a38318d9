package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/forth"
	"github.com/timewinder-dev/forth/interp"
	"github.com/timewinder-dev/forth/model"
	"github.com/timewinder-dev/forth/vm"
)

var traceFile string

var traceCmd = &cobra.Command{
	Use:   "trace LINE",
	Short: "Step through one line, printing the stack before each operation",
	Args:  cobra.ExactArgs(1),
	Run:   traceCommand,
}

func init() {
	traceCmd.Flags().StringVar(&traceFile, "file", "", "Evaluate this script first, to define words")
	traceCmd.Flags().BoolVar(&carryStack, "carry-stack", false, "Start from the stack left by --file")
}

func traceCommand(cmd *cobra.Command, args []string) {
	fth := forth.New(forth.WithCarryStack(carryStack))
	if traceFile != "" {
		f, err := os.Open(traceFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't open script")
		}
		err = fth.EvalReader(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't evaluate script")
		}
	}
	if err := traceLine(os.Stdout, fth, args[0], carryStack); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("error: %v", err))
		os.Exit(1)
	}
}

// traceLine compiles line against the interpreter's words and steps through
// it without committing anything. With carry the trace starts from the
// interpreter's committed stack.
func traceLine(w io.Writer, fth *forth.Forth, line string, carry bool) error {
	if strings.HasPrefix(strings.TrimSpace(line), ":") {
		return fmt.Errorf("%w: definitions cannot be traced", forth.ErrInvalidWord)
	}
	state := fth.Snapshot()
	prog := vm.Compile(vm.Tokenize(line), state.Dictionary())
	fmt.Fprintln(w, "Program:")
	prog.DebugPrint(w)

	frame := &interp.StackFrame{}
	if carry {
		frame = interp.NewFrame(state.Values())
	}
	for {
		fmt.Fprintln(w, "*******")
		prettyPrint(w, prog, frame)
		res, err := interp.Step(prog, frame)
		if err != nil {
			return err
		}
		if res == interp.EndStep {
			fmt.Fprintln(w, "Finished")
			return nil
		}
	}
}

func prettyPrint(w io.Writer, prog *vm.Program, f *interp.StackFrame) {
	stack := make([]int, f.Depth())
	for i, v := range f.Stack {
		stack[i] = int(v)
	}
	fmt.Fprintf(w, "Stack: %s\n", model.FormatStack(stack))
	inst, err := prog.GetInstruction(f.PC)
	if err != nil {
		fmt.Fprintln(w, "End of instructions")
	} else {
		fmt.Fprintf(w, "NextOp: %s\n", inst)
	}
}
