package main

import (
	"io"
	"os"
	"runtime"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/forth"
	"github.com/timewinder-dev/forth/model"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Run scripts and print the final stack of each",
	Long: `Run evaluates each script in its own interpreter, several at a time.
A FILE of "-" reads standard input.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&carryStack, "carry-stack", false, "Keep the stack between lines instead of starting each line empty")
}

type runOutcome struct {
	stack []int
	err   error
}

func runCommand(cmd *cobra.Command, args []string) {
	outcomes := runFiles(args, carryStack)
	failed := false
	for i, path := range args {
		o := outcomes[i]
		if o.err != nil {
			failed = true
			cmd.PrintErrln(color.Yellow.Sprint(path + ":"))
			cmd.PrintErrln(model.FormatLineError(o.err))
			continue
		}
		if len(args) > 1 {
			cmd.Print(color.Cyan.Sprint(path + ": "))
		}
		cmd.Println(model.FormatStack(o.stack))
	}
	if failed {
		os.Exit(1)
	}
}

// runFiles evaluates every script concurrently. Results keep argument order.
func runFiles(paths []string, carry bool) []runOutcome {
	out := make([]runOutcome, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			stack, err := runFile(path, carry)
			out[i] = runOutcome{stack: stack, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func runFile(path string, carry bool) ([]int, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	fth := forth.New(forth.WithCarryStack(carry))
	log.Debug().Str("file", path).Str("id", fth.ID.String()).Msg("running script")
	if err := fth.EvalReader(r); err != nil {
		return nil, err
	}
	return fth.Stack(), nil
}
