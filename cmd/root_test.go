package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func TestBaseRootCmd(t *testing.T) {
	cmd := baseRootCmd()
	assert.Equal(t, "mordant", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmdHelpOutput(t *testing.T) {
	cmd := baseRootCmd()
	cmd.AddCommand(newVersionCmd())

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, output.String(), "mutation testing")
	assert.Contains(t, output.String(), "version")
}

func TestStartPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want m.Path
	}{
		{"empty defaults to cwd", []string{}, m.Path(".")},
		{"single path", []string{"./pkg"}, m.Path("./pkg")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startPath(tt.args))
		})
	}
}

func TestConfigureRootFlags(t *testing.T) {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	for _, name := range []string{outputFlagName, excludeFlagName, verboseFlagName} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
	}
}
