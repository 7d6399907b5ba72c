package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProject(t *testing.T, name string) (*project.Project, *binding.Registry) {
	t.Helper()
	p := project.New(name)
	require.NoError(t, p.DefineVariable("width", 4))

	traj := project.NewTrajectory("path")
	traj.Waypoints = []project.Waypoint{
		project.NewWaypoint(0, 0, 0),
		project.NewWaypoint(2, 1, 0.5),
	}
	p.AddTrajectory(traj)

	reg := binding.NewRegistry()
	reg.Bind(binding.WaypointKey(traj.ID, 1, "y"), "width / 4")
	return p, reg
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSaveLoadProject_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p, reg := sampleProject(t, "auto-left")

	require.NoError(t, s.SaveProject(ctx, p, reg))

	loaded, loadedReg, result, err := s.LoadProject(ctx, "auto-left")
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "auto-left", loaded.Name)
	require.Len(t, loaded.Trajectories, 1)
	traj := loaded.Trajectories[0]
	require.Len(t, traj.Waypoints, 2)

	// The binding survived and was re-evaluated on load (width/4 = 1, which
	// matches the stored literal).
	assert.Equal(t, 1.0, traj.Waypoints[1].Y)
	assert.Equal(t, 1, loadedReg.Len())
}

func TestSaveProject_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p, reg := sampleProject(t, "auto-left")

	require.NoError(t, s.SaveProject(ctx, p, reg))
	p.Trajectories[0].Name = "renamed"
	require.NoError(t, s.SaveProject(ctx, p, reg))

	loaded, _, _, err := s.LoadProject(ctx, "auto-left")
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Trajectories[0].Name)

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLoadProject_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, _, _, err := s.LoadProject(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListProjects_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Force distinct second-resolution timestamps by writing rows directly.
	now := time.Now().UTC()
	for i, name := range []string{"oldest", "middle", "newest"} {
		stamp := now.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO projects (name, document, trajectory_count, updated_at)
			VALUES (?, ?, ?, ?)`,
			name, `{"name":"`+name+`","trajectories":[]}`, 0, stamp)
		require.NoError(t, err)
	}

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Name)
	assert.Equal(t, "middle", list[1].Name)
	assert.Equal(t, "oldest", list[2].Name)
}

func TestDeleteProject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p, reg := sampleProject(t, "doomed")
	require.NoError(t, s.SaveProject(ctx, p, reg))

	require.NoError(t, s.DeleteProject(ctx, "doomed"))

	err := s.DeleteProject(ctx, "doomed")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRawDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p, reg := sampleProject(t, "raw")
	require.NoError(t, s.SaveProject(ctx, p, reg))

	data, err := s.RawDocument(ctx, "raw")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"raw"`)

	_, err = s.RawDocument(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}
