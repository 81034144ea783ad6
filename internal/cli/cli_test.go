package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func modelPath(name string) string {
	return filepath.Join("testdata", "models", name)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=30", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")

	_, _, err = executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=30", "--log-format", "logfmt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRunCommand_Text(t *testing.T) {
	out, _, err := executeCommand(t, "", "run", modelPath("fan.yaml"), "--input", "temp=30")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "run_fan", []byte(out))
}

func TestRunCommand_Trace(t *testing.T) {
	out, _, err := executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=30", "--trace")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "run_fan_trace", []byte(out))
}

func TestRunCommand_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=30", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status  string `json:"status"`
		TraceID string `json:"trace_id"`
		Data    struct {
			System  string             `json:"system"`
			Outputs map[string]float64 `json:"outputs"`
			Classes map[string]string  `json:"classes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, "fan", resp.Data.System)
	assert.InDelta(t, 250.0/3, resp.Data.Outputs["fan"], 1e-9)
	assert.Equal(t, "fast", resp.Data.Classes["fan"])
}

func TestRunCommand_VerboseLogsTrace(t *testing.T) {
	_, stderr, err := executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=30",
		"--verbose", "--log-format", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, `"message":"Rule activated"`)
	assert.Contains(t, stderr, `"run_id"`)
}

func TestRunCommand_Errors(t *testing.T) {
	_, _, err := executeCommand(t, "", "run", modelPath("fan.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err), "missing input is an evaluation failure")

	_, _, err = executeCommand(t, "", "run", modelPath("fan.yaml"), "-i", "temp=warm")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "", "run", modelPath("missing.yaml"), "-i", "temp=1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "", "run", modelPath("dangling.yaml"), "-i", "temp=30")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown variable "fan"`)
}

func TestParseInputs(t *testing.T) {
	inputs, err := parseInputs([]string{"temp=30", " humidity = 0.5 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"temp": 30, "humidity": 0.5}, inputs)

	_, err = parseInputs([]string{"temp"})
	assert.Error(t, err)

	_, err = parseInputs([]string{"=3"})
	assert.Error(t, err)

	_, err = parseInputs([]string{"temp=1", "temp=2"})
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	out, _, err := executeCommand(t, "", "check", modelPath("redundant.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "redundant: 2 variables, 3 rules, all references resolved")
	assert.Contains(t, out, "simplifies: rule 1: temp cold => fan slow")
	assert.Contains(t, out, "duplicate: rule 2 repeats rule 0")
}

func TestCheckCommand_UnresolvedReferences(t *testing.T) {
	_, _, err := executeCommand(t, "", "check", modelPath("dangling.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "unresolved references")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", errors.New("x"))))
}
