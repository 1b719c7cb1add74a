package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()
	cmd := Root()
	assert.Equal(t, "azfleet", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"deploy", "status", "terminate", "validate", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestDeploy_RequiredFlags(t *testing.T) {
	t.Parallel()
	cmd := Deploy()
	cmd.SetArgs([]string{})
	require.Error(t, cmd.Execute())
}

func TestStatus_RequiresArg(t *testing.T) {
	t.Parallel()
	cmd := Status()
	cmd.SetArgs([]string{"--profile", "p.yaml"})
	require.Error(t, cmd.Execute())
}
