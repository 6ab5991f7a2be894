package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"basegraph.app/eleot/core/config"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/service"
	"basegraph.app/eleot/internal/textnorm"
)

func newEvaluationService() service.EvaluationService {
	return service.NewEvaluationService(evaluation.New(slog.Default()), nil, nil, slog.Default())
}

func runEvaluate(cmd *cobra.Command, opts evaluateOptions) error {
	description, err := readDescription(cmd, opts.file)
	if err != nil {
		return err
	}
	answers, err := parseAnswers(opts.answers)
	if err != nil {
		return err
	}

	req := evaluation.Request{
		Description:  description,
		Environments: opts.envs,
		Language:     resolveLanguage(opts.lang, description),
		Debug:        opts.debug,
	}
	if len(answers) > 0 || opts.skipped {
		req.Clarifications = &evaluation.Clarifications{Skipped: opts.skipped, Answers: answers}
	}

	return evaluateAndPrint(cmd, req, opts.asJSON)
}

func evaluateAndPrint(cmd *cobra.Command, req evaluation.Request, asJSON bool) error {
	view, err := newEvaluationService().Evaluate(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, evaluation.ErrMissingFields) {
			return errors.New("a lesson description and at least one environment are required")
		}
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, view)
	}
	printView(out, view)
	return nil
}

func printView(out io.Writer, view *evaluation.View) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENV\tCRITERION\tSCORE\tEVIDENCE\tJUSTIFICATION")
	for _, s := range view.Legacy.Scores {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.EnvironmentID, s.CriterionID, s.Score, s.EvidenceStrength, s.Justification)
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "\nOverall: %.2f\n", view.Legacy.OverallScore)

	if len(view.Legacy.AdjustmentsAudit) > 0 {
		fmt.Fprintln(out, "\nAdjusted by clarification:")
		for _, a := range view.Legacy.AdjustmentsAudit {
			fmt.Fprintf(out, "  %s: %d -> %d (%s)\n", a.CriterionID, a.OriginalScore, a.AdjustedScore, a.Reason)
		}
	}

	if len(view.Overall.NextSteps) > 0 {
		fmt.Fprintln(out, "\nNext steps:")
		for _, step := range view.Overall.NextSteps {
			fmt.Fprintf(out, "  - %s\n", step)
		}
	}
}

func runQuestions(cmd *cobra.Command, opts evaluateOptions) error {
	description, err := readDescription(cmd, opts.file)
	if err != nil {
		return err
	}

	lang := resolveLanguage(opts.lang, description)
	questions := newEvaluationService().Questions(cmd.Context(), description, opts.envs, lang)
	resp := dto.ToQuestionsResponse(questions, lang)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, resp)
	}
	if !resp.Needed {
		fmt.Fprintln(out, "No clarification needed.")
		return nil
	}
	for _, q := range resp.Questions {
		fmt.Fprintf(out, "%s [%s]\n  %s\n", q.ID, q.CriterionID, q.Question)
		for _, o := range q.Options {
			fmt.Fprintf(out, "    %s=%s  %s\n", q.ID, o.Value, o.Label)
		}
	}
	return nil
}

func runSamplesList(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENVIRONMENTS\tLANG\tDESCRIPTION")
	for _, s := range evaluation.Samples() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, strings.Join(s.Body.SelectedEnvironments, ","), s.Body.Language, s.Description)
	}
	return tw.Flush()
}

func runSample(cmd *cobra.Command, id string, opts evaluateOptions) error {
	sample, ok := evaluation.SampleByID(id)
	if !ok {
		return fmt.Errorf("unknown sample %q (run \"eleot samples\" to list them)", id)
	}
	return evaluateAndPrint(cmd, sample.Request(opts.debug), opts.asJSON)
}

func runRubric(cmd *cobra.Command, lang string) error {
	resp := dto.ToRubricResponse(rubric.Default(), textnorm.ParseLanguage(lang))

	out := cmd.OutOrStdout()
	for _, env := range resp.Environments {
		fmt.Fprintf(out, "%s  %s\n", env.ID, env.Name)
		for _, c := range env.Criteria {
			fmt.Fprintf(out, "  %-4s %s\n", c.ID, c.Label)
		}
	}
	fmt.Fprintln(out, "\nScale:")
	for _, sc := range resp.Scale {
		fmt.Fprintf(out, "  %d  %s\n", sc.Score, sc.Justification)
	}
	fmt.Fprintln(out, "\nGrades:")
	for _, g := range resp.Grades {
		fmt.Fprintf(out, "  %s  %s\n", g.Value, g.Label)
	}
	return nil
}

func readDescription(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading lesson description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// parseAnswers turns id=value pairs into an answer map.
func parseAnswers(pairs []string) (map[string]string, error) {
	answers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid --answer %q, expected id=value", pair)
		}
		answers[key] = value
	}
	return answers, nil
}

// resolveLanguage falls back to EVAL_DEFAULT_LANGUAGE, then to the script of
// the description.
func resolveLanguage(flag, description string) textnorm.Language {
	if flag != "" {
		return textnorm.ParseLanguage(flag)
	}
	if cfg, err := config.Load(config.ServiceTypeCLI); err == nil && cfg.Eval.DefaultLanguage != "" {
		return textnorm.ParseLanguage(cfg.Eval.DefaultLanguage)
	}
	return textnorm.Detect(description)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
