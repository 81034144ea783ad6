package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/fuzzy/internal/model"
	"rgehrsitz/fuzzy/internal/preprocessor"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <model.yaml>",
		Short: "Validate a model without evaluating it",
		Long: `Parse a model, verify that every variable and fuzzy set a rule names is
defined, and report rules that simplify or that repeat an earlier rule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkModel(rootOpts, args[0], cmd)
		},
	}
}

type checkReport struct {
	Rules      int      `json:"rules"`
	Simplified []string `json:"simplified,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
}

func checkModel(opts *RootOptions, path string, cmd *cobra.Command) error {
	logger, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "bad logging flags", err)
	}

	m, err := model.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load model", err)
	}
	sys, err := m.Build(systemOptions(opts, logger)...)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid model", err)
	}
	if err := sys.Validate(); err != nil {
		return WrapExitError(ExitFailure, "unresolved references", err)
	}

	rules := sys.Rules()
	report := checkReport{Rules: len(rules)}
	for i, r := range rules {
		simplified := preprocessor.Simplify(r.Conditions)
		if simplified.String() != r.Conditions.String() {
			report.Simplified = append(report.Simplified,
				fmt.Sprintf("rule %d: %s => %s", i, simplified, r.Consequent))
		}
	}
	dups, err := preprocessor.DuplicateRules(rules)
	if err != nil {
		return WrapExitError(ExitFailure, "duplicate detection failed", err)
	}
	for _, d := range dups {
		report.Duplicates = append(report.Duplicates, fmt.Sprintf("rule %d repeats rule %d", d.Index, d.Original))
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, Response{Status: "ok", Data: report})
	}

	fmt.Fprintf(out, "%s: %d variables, %d rules, all references resolved\n",
		sys.Name(), len(sys.Variables()), report.Rules)
	for _, r := range preprocessor.SortByConsequent(rules) {
		fmt.Fprintf(out, "  %s\n", r)
	}
	for _, s := range report.Simplified {
		fmt.Fprintf(out, "simplifies: %s\n", s)
	}
	for _, d := range report.Duplicates {
		fmt.Fprintf(out, "duplicate: %s\n", d)
	}
	return nil
}
