// Package config resolves tool configuration: where the project library
// lives and where the external solver is reached. Values come from an
// optional YAML file with environment overrides on top; everything has a
// workable default so a bare checkout just runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvProjectDir overrides the project directory, matching the convention
// of earlier tool versions.
const EnvProjectDir = "TRAJOPT_PROJECT_DIR"

// Config is the resolved tool configuration.
type Config struct {
	// ProjectDir is the directory holding the project library database and
	// field images.
	ProjectDir string `yaml:"project_dir"`

	// Database is the project library path. Defaults to projects.db inside
	// ProjectDir.
	Database string `yaml:"database"`

	// SolverURL is where the external solve endpoint listens.
	SolverURL string `yaml:"solver_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProjectDir: "projects",
		SolverURL:  "http://127.0.0.1:8000",
	}
}

// Load reads configuration from path, falling back to defaults when path is
// empty or the file does not exist. Environment overrides are applied last,
// and the database path is derived from the project directory when unset.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing config file is fine; defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %q: %w", path, err)
			}
		}
	}

	if env := os.Getenv(EnvProjectDir); env != "" {
		cfg.ProjectDir = env
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.ProjectDir, "projects.db")
	}

	return cfg, nil
}

// EnsureProjectDir creates the project directory if needed and returns it.
func (c Config) EnsureProjectDir() (string, error) {
	if err := os.MkdirAll(c.ProjectDir, 0o755); err != nil {
		return "", fmt.Errorf("create project directory %q: %w", c.ProjectDir, err)
	}
	return c.ProjectDir, nil
}
