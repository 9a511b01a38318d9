package main

import (
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/forth/cas"
	"github.com/timewinder-dev/forth/model"
)

var (
	keepGoing   bool
	detailsFlag bool
	verboseFlag bool
	checkStore  string
)

var checkCmd = &cobra.Command{
	Use:   "check CHECKFILE",
	Short: "Run a script against the properties in a TOML or YAML check file",
	Args:  cobra.ExactArgs(1),
	Run:   checkCommand,
}

func init() {
	checkCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Keep checking the script after reporting its first failure")
	checkCmd.Flags().BoolVar(&detailsFlag, "details", false, "Show every traced state when a property is violated")
	checkCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "Print the stack after each line")
	checkCmd.Flags().StringVar(&checkStore, "store", "", "Keep traced states in this SQLite database")
}

func checkCommand(cmd *cobra.Command, args []string) {
	if code := check(cmd, args[0]); code != 0 {
		os.Exit(code)
	}
}

// check runs one check file and returns the process exit code.
func check(cmd *cobra.Command, path string) int {
	spec, err := model.LoadSpecFromFile(path)
	if err != nil {
		log.Error().Err(err).Msg("Couldn't load check file")
		return 1
	}
	exec, err := spec.BuildExecutor()
	if err != nil {
		log.Error().Err(err).Msg("Couldn't build executor for check file")
		return 1
	}
	exec.KeepGoing = keepGoing
	exec.ShowDetails = detailsFlag
	if verboseFlag {
		exec.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
	if checkStore != "" {
		store, err := cas.OpenSQLiteCAS(checkStore)
		if err != nil {
			log.Error().Err(err).Msg("Couldn't open state store")
			return 1
		}
		defer store.Close()
		exec.Store = cas.NewLRUCache(store, 0)
	}

	cmd.PrintErrln(color.Cyan.Sprintf("Checking %s...", spec.Spec.File))

	result, err := exec.Run()
	if err != nil {
		log.Error().Err(err).Msg("Error during checking")
		return 1
	}

	for _, le := range result.Errors {
		cmd.PrintErrln(model.FormatLineError(le))
	}
	if len(result.Violations) > 0 {
		if keepGoing {
			cmd.PrintErr(model.FormatAllViolations(result.Violations))
		} else {
			cmd.PrintErr(model.FormatPropertyViolation(result.Violations[0]))
		}
	}

	cmd.PrintErr(model.FormatStatistics(result.Statistics))
	cmd.Println(model.FormatStack(result.FinalStack))

	if !result.Success {
		return 1
	}
	cmd.PrintErrln()
	cmd.PrintErrln(color.Green.Sprint("✓ Check completed successfully - all properties satisfied!"))
	return 0
}
