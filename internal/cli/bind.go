package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/graph"
)

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind <project> <key> [expression]",
		Short: "Bind a field to an expression, or clear a binding",
		Long: `Bind a numeric field of a stored project to an expression, re-evaluate,
and save.

Keys use the canonical colon form:

  waypoint:<trajectory-id>:<index>:<field>
  constraint:<trajectory-id>:<constraint-id>:<param>
  robotParam:<field>
  solverSetting:<trajectory-id>:<field>

Omitting the expression clears the binding; the field keeps its last
computed value. A binding whose expression fails to evaluate is still
saved — the field holds its previous value until the expression heals.`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(cmd, rootOpts, args)
		},
	}

	return cmd
}

type bindPayload struct {
	Project    string   `json:"project"`
	Key        string   `json:"key"`
	Expression string   `json:"expression,omitempty"`
	Cleared    bool     `json:"cleared,omitempty"`
	Changed    []string `json:"changed"`
	Errors     []string `json:"errors,omitempty"`
}

func runBind(cmd *cobra.Command, opts *RootOptions, args []string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	key, err := binding.ParseKey(args[1])
	if err != nil {
		return WrapExitError(ExitCommandError, "parse binding key", err)
	}
	expression := ""
	if len(args) == 3 {
		expression = args[2]
	}

	st, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project library", err)
	}
	defer st.Close()

	p, reg, _, err := st.LoadProject(cmd.Context(), args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "load project", err)
	}

	reg.Bind(key, expression)
	result := binding.ReevaluateAll(p, reg)
	graph.SyncChangedEndpoints(p, result.Changed)

	if err := st.SaveProject(cmd.Context(), p, reg); err != nil {
		return WrapExitError(ExitCommandError, "save project", err)
	}

	_, bound := reg.Get(key)
	if opts.Format == "json" {
		payload := bindPayload{
			Project:    args[0],
			Key:        key.String(),
			Expression: expression,
			Cleared:    !bound,
			Changed:    keyStrings(result.Changed),
		}
		for _, be := range result.Errors {
			payload.Errors = append(payload.Errors, fmt.Sprintf("%s: %s", be.Key, be.Err))
		}
		if err := formatter.Success(payload); err != nil {
			return err
		}
	} else {
		var b strings.Builder
		if bound {
			fmt.Fprintf(&b, "bound %s = %s", key, expression)
		} else {
			fmt.Fprintf(&b, "cleared %s", key)
		}
		for _, k := range result.Changed {
			fmt.Fprintf(&b, "\n  changed %s", k)
		}
		for _, be := range result.Errors {
			fmt.Fprintf(&b, "\n  error %s: %s", be.Key, be.Err)
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
