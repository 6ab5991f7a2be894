package main

import (
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	file    string
	envs    []string
	lang    string
	answers []string
	skipped bool
	asJSON  bool
	debug   bool
}

func buildEvaluateCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a lesson description",
		Long: `Evaluate a lesson description read from --file (or stdin when --file is "-")
against the selected environments.

Clarification answers are passed as question or criterion id pairs:
  eleot evaluate --file lesson.txt --env D,F --answer D1_discussions=yes_predominate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "Lesson description file, - for stdin")
	cmd.Flags().StringSliceVarP(&opts.envs, "env", "e", nil, "Environments to score (A-G)")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "Output language, ar or en (defaults to EVAL_DEFAULT_LANGUAGE, then detection)")
	cmd.Flags().StringArrayVarP(&opts.answers, "answer", "a", nil, "Clarification answer as id=value (repeatable)")
	cmd.Flags().BoolVar(&opts.skipped, "skip-clarifications", false, "Mark clarification as skipped")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full JSON response")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Include per-criterion evidence diagnostics")
	_ = cmd.MarkFlagRequired("env")
	return cmd
}

func buildQuestionsCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the clarification questions a description needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestions(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "Lesson description file, - for stdin")
	cmd.Flags().StringSliceVarP(&opts.envs, "env", "e", nil, "Environments (A-G)")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "Question language, ar or en")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("env")
	return cmd
}

func buildSamplesCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "samples [id]",
		Short: "List the built-in samples, or evaluate one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runSamplesList(cmd)
			}
			return runSample(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full JSON response")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Include per-criterion evidence diagnostics")
	return cmd
}

func buildRubricCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Print the environments, criteria and grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRubric(cmd, lang)
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "Label language, ar or en")
	return cmd
}
