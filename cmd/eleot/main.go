package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"basegraph.app/eleot/common/logger"
)

var verbose bool

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildRootCmd is separate from main so tests can run commands in-process.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eleot",
		Short: "Score lesson observations against the ELEOT rubric",
		Long: `eleot runs the lesson evaluation pipeline locally: evidence extraction,
rubric scoring, clarification rules and narrative recommendations.

No database or redis is needed; results are printed to stdout.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Logs go to stderr so --json output stays parseable.
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(logger.NewTraceHandler(
				slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}),
			)))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")

	rootCmd.AddCommand(
		buildEvaluateCmd(),
		buildQuestionsCmd(),
		buildSamplesCmd(),
		buildRubricCmd(),
	)
	return rootCmd
}
