package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/persist"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// ErrNotFound is returned when the named project does not exist.
var ErrNotFound = errors.New("project not found")

// Metadata describes one saved project without its document body.
type Metadata struct {
	Name            string
	UpdatedAt       string
	TrajectoryCount int
}

// SaveProject flattens a project and its bindings and upserts the document
// under the project's name. The timestamp is stamped in UTC RFC 3339.
func (s *Store) SaveProject(ctx context.Context, p *project.Project, reg *binding.Registry) error {
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	document, err := persist.Marshal(p, reg, updatedAt)
	if err != nil {
		return fmt.Errorf("marshal project %q: %w", p.Name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (name, document, trajectory_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			document = excluded.document,
			trajectory_count = excluded.trajectory_count,
			updated_at = excluded.updated_at`,
		p.Name, string(document), len(p.Trajectories), updatedAt)
	if err != nil {
		return fmt.Errorf("save project %q: %w", p.Name, err)
	}
	return nil
}

// LoadProject rebuilds a project and its binding registry from the stored
// document and runs the load-time re-evaluation pass. Per-binding errors in
// the result are reportable, not fatal.
func (s *Store) LoadProject(ctx context.Context, name string) (*project.Project, *binding.Registry, binding.Result, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM projects WHERE name = ?`, name).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, binding.Result{}, fmt.Errorf("load project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, nil, binding.Result{}, fmt.Errorf("load project %q: %w", name, err)
	}

	p, reg, result, err := persist.Load([]byte(document))
	if err != nil {
		return nil, nil, binding.Result{}, fmt.Errorf("load project %q: %w", name, err)
	}
	return p, reg, result, nil
}

// RawDocument returns the stored document bytes without constructing the
// model, for schema validation and export.
func (s *Store) RawDocument(ctx context.Context, name string) ([]byte, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM projects WHERE name = ?`, name).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return []byte(document), nil
}

// ListProjects returns metadata for every saved project, newest first. Name
// breaks ties so listings are stable.
func (s *Store) ListProjects(ctx context.Context) ([]Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, updated_at, trajectory_count
		FROM projects
		ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []Metadata
	for rows.Next() {
		var m Metadata
		if err := rows.Scan(&m.Name, &m.UpdatedAt, &m.TrajectoryCount); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// DeleteProject removes a saved project.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete project %q: %w", name, ErrNotFound)
	}
	return nil
}
