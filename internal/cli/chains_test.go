package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainsText(t *testing.T) {
	dbPath := seedLibrary(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	cmd := NewChainsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "cycle-1: approach -> score\n", buf.String())
}

func TestChainsJSON(t *testing.T) {
	dbPath := seedLibrary(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Database: dbPath}
	cmd := NewChainsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	groups, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, groups, 1)

	group, ok := groups[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cycle-1", group["name"])
	assert.Equal(t, []any{"approach", "score"}, group["members"])
}

func TestChainsUnknownProject(t *testing.T) {
	dbPath := seedLibrary(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	cmd := NewChainsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"no-such-project"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}
