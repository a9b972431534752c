package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", shell})
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestCompletionBash(t *testing.T) {
	output := runCompletion(t, "bash")
	assert.Contains(t, output, "# bash completion")
	assert.Contains(t, output, "mcpdash")
}

func TestCompletionZsh(t *testing.T) {
	output := runCompletion(t, "zsh")
	assert.Contains(t, output, "#compdef mcpdash")
}

func TestCompletionFish(t *testing.T) {
	output := runCompletion(t, "fish")
	assert.Contains(t, output, "complete -c mcpdash")
}

func TestCompletionPowerShell(t *testing.T) {
	output := runCompletion(t, "powershell")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}
