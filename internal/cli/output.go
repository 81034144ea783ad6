package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/runtime"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Evaluation or validation failure
	ExitCommandError = 2 // Bad arguments or unreadable model
)

// ExitError carries the exit code a command failure should produce.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope for command output.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type runData struct {
	System    string             `json:"system"`
	Fuzzified runtime.Fuzzified  `json:"fuzzified"`
	Inferred  runtime.Inferred   `json:"inferred"`
	Outputs   map[string]float64 `json:"outputs"`
	Classes   map[string]string  `json:"classes"`
	Trace     []runtime.Event    `json:"trace,omitempty"`
}

func writeJSON(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// writeResult prints a run in registration order of variables and sets.
func writeResult(w io.Writer, sys *runtime.System, res *runtime.Result, trace []runtime.Event) {
	fmt.Fprintf(w, "System: %s\n", sys.Name())

	fmt.Fprintln(w, "Fuzzified:")
	for _, v := range sys.Variables() {
		if degrees, ok := res.Fuzzified[v.Name()]; ok {
			fmt.Fprintf(w, "  %s:%s\n", v.Name(), formatDegrees(v, degrees))
		}
	}

	fmt.Fprintln(w, "Inferred:")
	for _, v := range sys.Variables() {
		if activations, ok := res.Inferred[v.Name()]; ok {
			fmt.Fprintf(w, "  %s:%s\n", v.Name(), formatDegrees(v, activations))
		}
	}

	fmt.Fprintln(w, "Outputs:")
	for _, v := range sys.Variables() {
		crisp, ok := res.Outputs[v.Name()]
		if !ok {
			continue
		}
		class := res.Classes[v.Name()]
		if class == "" {
			class = "none"
		}
		fmt.Fprintf(w, "  %s = %s (%s)\n", v.Name(), formatFloat(crisp), class)
	}

	if len(trace) > 0 {
		fmt.Fprintln(w, "Trace:")
		for _, e := range trace {
			switch e.Kind {
			case runtime.EventCondition:
				fmt.Fprintf(w, "  rule %d: %s = %s\n", e.Rule, e.Subject, formatFloat(e.Value))
			case runtime.EventRule:
				fmt.Fprintf(w, "  rule %d => %s = %s\n", e.Rule, e.Subject, formatFloat(e.Value))
			case runtime.EventDefuzzify:
				fmt.Fprintf(w, "  defuzzify %s: activation %s, centroid %s\n",
					e.Subject, formatFloat(e.Value), formatFloat(e.Centroid))
			}
		}
	}
}

func formatDegrees(v *fuzzy.Variable, degrees map[string]float64) string {
	var out string
	for _, s := range v.Sets() {
		if d, ok := degrees[s.Name()]; ok {
			out += " " + s.Name() + "=" + formatFloat(d)
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
