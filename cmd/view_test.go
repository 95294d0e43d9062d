package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordant-dev/mordant/internal/controller"
	m "github.com/mordant-dev/mordant/internal/model"
)

func TestViewCmdDisplaysStoredVerdicts(t *testing.T) {
	tempDir := t.TempDir()

	require.NoError(t, resultStore.Save(m.Path(tempDir), []m.Verdict{
		{MutantID: 1, File: "pkg/a.go", Status: "killed"},
		{MutantID: 2, File: "pkg/a.go", Status: "survived"},
	}))

	out := &bytes.Buffer{}
	host := &cobra.Command{}
	host.SetOut(out)
	host.SetErr(out)

	originalUI := ui
	ui = controller.NewSimpleUI(host)
	t.Cleanup(func() { ui = originalUI })

	viper.Set(outputFlagName, tempDir)
	t.Cleanup(func() { viper.Set(outputFlagName, defaultVerdictsDir) })

	cmd := newViewCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "pkg/a.go")
	assert.Contains(t, output, "Mutation score: 50.00%")
}

func TestViewCmdEmptyStore(t *testing.T) {
	tempDir := t.TempDir()

	out := &bytes.Buffer{}
	host := &cobra.Command{}
	host.SetOut(out)
	host.SetErr(out)

	originalUI := ui
	ui = controller.NewSimpleUI(host)
	t.Cleanup(func() { ui = originalUI })

	viper.Set(outputFlagName, tempDir)
	t.Cleanup(func() { viper.Set(outputFlagName, defaultVerdictsDir) })

	cmd := newViewCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No mutants were tested.")
}
