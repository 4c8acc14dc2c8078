//go:build unit || !integration

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdn-project/oracle-gateway/pkg/logger"
)

func TestRootHelpListsCommands(t *testing.T) {
	logger.ConfigureTestLogging(t)

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "serve")
	assert.Contains(t, out.String(), "version")
	assert.Contains(t, out.String(), "--repo")
}

func TestRootRejectsUnknownLogLevel(t *testing.T) {
	logger.ConfigureTestLogging(t)

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version", "--log-level", "shouting"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shouting")
}
