// Package cli implements the trajopt command line: project library
// management, expression evaluation, document validation, and chain
// inspection. All model semantics live in the internal packages; commands
// only wire them to flags and output.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/config"
	"github.com/Veratay/mecanum-trajopt/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // config file path
	Database string // overrides the configured library path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the trajopt CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trajopt",
		Short: "Mecanum trajectory project editor core",
		Long:  "Manage trajectory projects: variables, expression bindings, chained trajectories, and the project library.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.Database, "database", "", "project library database path")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewChainsCommand(opts))
	cmd.AddCommand(NewBindCommand(opts))
	cmd.AddCommand(NewReevalCommand(opts))
	cmd.AddCommand(NewRemoveTrajectoryCommand(opts))
	cmd.AddCommand(NewProjectsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openStore resolves configuration and opens the project library.
func openStore(opts *RootOptions) (*store.Store, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Database != "" {
		return store.Open(opts.Database)
	}
	if _, err := cfg.EnsureProjectDir(); err != nil {
		return nil, err
	}
	return store.Open(cfg.Database)
}
