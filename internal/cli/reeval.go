package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
)

// ReevalOptions holds flags for the reeval command.
type ReevalOptions struct {
	Root   *RootOptions
	DryRun bool
}

// NewReevalCommand creates the reeval command.
func NewReevalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReevalOptions{Root: rootOpts}

	cmd := &cobra.Command{
		Use:   "reeval <project>",
		Short: "Re-evaluate a stored project's expression bindings",
		Long: `Load a project, re-evaluate every expression binding, and save the
result back to the library.

Reports which bound fields changed, which cached solves were discarded,
and which bindings failed. Failed bindings keep their last value; a pass
with failures still applies every healthy binding.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReeval(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report changes without saving")

	return cmd
}

type reevalPayload struct {
	Project     string   `json:"project"`
	Changed     []string `json:"changed"`
	Invalidated []string `json:"invalidated"`
	Errors      []string `json:"errors,omitempty"`
	Saved       bool     `json:"saved"`
}

func runReeval(cmd *cobra.Command, opts *ReevalOptions, name string) error {
	formatter := newFormatter(opts.Root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.Root)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project library", err)
	}
	defer st.Close()

	// Load already runs one evaluation pass; its result is the report.
	p, reg, result, err := st.LoadProject(cmd.Context(), name)
	if err != nil {
		return WrapExitError(ExitCommandError, "load project", err)
	}

	saved := false
	if !opts.DryRun {
		if err := st.SaveProject(cmd.Context(), p, reg); err != nil {
			return WrapExitError(ExitCommandError, "save project", err)
		}
		saved = true
	}

	if opts.Root.Format == "json" {
		payload := reevalPayload{
			Project:     name,
			Changed:     keyStrings(result.Changed),
			Invalidated: result.Invalidated,
			Saved:       saved,
		}
		for _, be := range result.Errors {
			payload.Errors = append(payload.Errors, fmt.Sprintf("%s: %s", be.Key, be.Err))
		}
		if err := formatter.Success(payload); err != nil {
			return err
		}
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "%s: %d changed, %d solve(s) discarded, %d error(s)",
			name, len(result.Changed), len(result.Invalidated), len(result.Errors))
		for _, k := range result.Changed {
			fmt.Fprintf(&b, "\n  changed %s", k)
		}
		for _, id := range result.Invalidated {
			fmt.Fprintf(&b, "\n  discarded solve %s", id)
		}
		for _, be := range result.Errors {
			fmt.Fprintf(&b, "\n  error %s: %s", be.Key, be.Err)
		}
		if !saved {
			b.WriteString("\n  (dry run, not saved)")
		}
		if err := formatter.Success(b.String()); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d binding error(s)", len(result.Errors)))
	}
	return nil
}

func keyStrings(keys []binding.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}
