package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shellSession = `1
fan
demo controller
1
temp IN [0, 40]
fan out [0,100]
broken
x
2
temp
cold TRI 0 0 20
hot tri 20 40 40
warm TRI 10 20
x
2
fan
slow TRI 0 0 50
fast TRI 50 100 100
x
2
pressure
3
temp hot => fan fast
temp hot fan fast
x
4
abc
30
5
2
`

func TestShell_Session(t *testing.T) {
	var out bytes.Buffer
	sh := NewShell(strings.NewReader(shellSession), &out)
	require.NoError(t, sh.Run())

	got := out.String()
	assert.Contains(t, got, "System 'fan' created.")
	assert.Contains(t, got, "Invalid format! Use: name IN/OUT [lower, upper]")
	assert.Contains(t, got, "Invalid format! Use: name TRI/TRAP")
	assert.Contains(t, got, "Variable not found!")
	assert.Contains(t, got, "Rule added: temp hot => fan fast")
	assert.Contains(t, got, "Invalid rule format! Error:")
	assert.Contains(t, got, "Invalid format! Enter a number.")
	assert.Contains(t, got, "fan = 83.3333 (fast)")
	assert.True(t, strings.HasSuffix(got, "Exiting...\n"))
}

func TestShell_IncompleteInputs(t *testing.T) {
	session := "1\ns\n\n1\na IN [0, 1]\nb IN [0, 1]\nx\n4\n0.5\nx\n5\n2\n"
	var out bytes.Buffer
	require.NoError(t, NewShell(strings.NewReader(session), &out).Run())

	assert.Contains(t, out.String(), "Not all input values were provided.")
}

func TestShell_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewShell(strings.NewReader("1\nfan\n"), &out).Run())
	assert.Contains(t, out.String(), "Enter a brief description: ")
}

func TestShellCommand(t *testing.T) {
	out, _, err := executeCommand(t, "3\n2\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid choice!")
	assert.Contains(t, out, "Exiting...")
}
