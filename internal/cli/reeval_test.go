package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veratay/mecanum-trajopt/internal/store"
)

func TestReevalClean(t *testing.T) {
	dbPath := seedLibrary(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	cmd := NewReevalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left"})

	// The seeded binding evaluates to the value already stored, so a
	// re-evaluation pass finds nothing to do.
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "0 changed, 0 solve(s) discarded, 0 error(s)")
}

func TestReevalReportsChanges(t *testing.T) {
	dbPath := seedLibrary(t)

	// Move the variable the binding depends on and save, so the next load
	// recomputes the bound waypoint field.
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	p, reg, _, err := s.LoadProject(context.Background(), "auto-left")
	require.NoError(t, err)
	require.NoError(t, p.SetVariableValue("width", 8))
	require.NoError(t, s.SaveProject(context.Background(), p, reg))
	require.NoError(t, s.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Database: dbPath}
	cmd := NewReevalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Len(t, data["changed"], 1)
	// No solve was cached, so nothing is reported as discarded.
	assert.Empty(t, data["invalidated"])
	assert.Equal(t, true, data["saved"])
}

func TestReevalDryRun(t *testing.T) {
	dbPath := seedLibrary(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	cmd := NewReevalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left", "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "dry run, not saved")
}

func TestReevalBrokenBinding(t *testing.T) {
	dbPath := seedLibrary(t)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	p, reg, _, err := s.LoadProject(context.Background(), "auto-left")
	require.NoError(t, err)
	require.NoError(t, p.DeleteVariable("width"))
	require.NoError(t, s.SaveProject(context.Background(), p, reg))
	require.NoError(t, s.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Database: dbPath}
	cmd := NewReevalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"auto-left"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "1 error(s)")
	assert.Contains(t, buf.String(), "UNKNOWN_VARIABLE")
}
