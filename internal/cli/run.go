package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rgehrsitz/fuzzy/internal/model"
	"rgehrsitz/fuzzy/internal/runtime"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Inputs []string
	Trace  bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <model.yaml>",
		Short: "Evaluate a model on crisp inputs",
		Long: `Load a fuzzy model from YAML and evaluate it on crisp values for every
input variable. Prints membership degrees, aggregated rule activations, the
crisp output of each output variable and its dominant set.

Example:
  fuzzy run fan.yaml --input temp=30
  fuzzy run hvac.yaml -i temp=22 -i humidity=65 --trace --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModel(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Inputs, "input", "i", nil, "crisp input as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the rule evaluation trace in the output")

	return cmd
}

func runModel(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger, err := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "bad logging flags", err)
	}

	inputs, err := parseInputs(opts.Inputs)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --input", err)
	}

	m, err := model.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load model", err)
	}

	rec := &runtime.Recorder{}
	sys, err := m.Build(systemOptions(opts.RootOptions, logger, rec)...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid model", err)
	}

	res, err := sys.Run(inputs)
	if err != nil {
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}

	var trace []runtime.Event
	if opts.Trace {
		trace = rec.Events
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, Response{
			Status:  "ok",
			TraceID: res.RunID.String(),
			Data: runData{
				System:    sys.Name(),
				Fuzzified: res.Fuzzified,
				Inferred:  res.Inferred,
				Outputs:   res.Outputs,
				Classes:   res.Classes,
				Trace:     trace,
			},
		})
	}
	writeResult(out, sys, res, trace)
	return nil
}

// parseInputs turns ["temp=30", "humidity=0.5"] into a value map.
func parseInputs(pairs []string) (map[string]float64, error) {
	inputs := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", name, err)
		}
		if _, dup := inputs[name]; dup {
			return nil, fmt.Errorf("input %q given more than once", name)
		}
		inputs[name] = value
	}
	return inputs, nil
}
