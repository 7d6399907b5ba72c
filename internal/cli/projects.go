package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/store"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the project library",
	}

	cmd.AddCommand(newProjectsListCommand(rootOpts))
	cmd.AddCommand(newProjectsShowCommand(rootOpts))
	cmd.AddCommand(newProjectsDeleteCommand(rootOpts))

	return cmd
}

type projectListPayload struct {
	Name            string `json:"name"`
	UpdatedAt       string `json:"updatedAt"`
	TrajectoryCount int    `json:"trajectoryCount"`
}

func newProjectsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved projects, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(rootOpts)
			if err != nil {
				return WrapExitError(ExitCommandError, "open project library", err)
			}
			defer st.Close()

			list, err := st.ListProjects(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list projects", err)
			}

			if rootOpts.Format == "json" {
				payload := make([]projectListPayload, 0, len(list))
				for _, m := range list {
					payload = append(payload, projectListPayload{
						Name:            m.Name,
						UpdatedAt:       m.UpdatedAt,
						TrajectoryCount: m.TrajectoryCount,
					})
				}
				return formatter.Success(payload)
			}

			if len(list) == 0 {
				return formatter.Success("no projects")
			}
			var b strings.Builder
			for i, m := range list {
				if i > 0 {
					b.WriteByte('\n')
				}
				fmt.Fprintf(&b, "%-24s %2d trajectories  %s", m.Name, m.TrajectoryCount, m.UpdatedAt)
			}
			return formatter.Success(b.String())
		},
	}
}

type projectShowPayload struct {
	Name         string             `json:"name"`
	LinkedFrom   string             `json:"linkedFrom,omitempty"`
	Variables    map[string]float64 `json:"variables"`
	Trajectories []string           `json:"trajectories"`
	Bindings     map[string]string  `json:"bindings"`
}

func newProjectsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <project>",
		Short:         "Show a project's variables, trajectories, and bindings",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(rootOpts)
			if err != nil {
				return WrapExitError(ExitCommandError, "open project library", err)
			}
			defer st.Close()

			p, reg, result, err := st.LoadProject(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load project", err)
			}
			for _, be := range result.Errors {
				formatter.VerboseLog("binding %s: %s", be.Key, be.Err)
			}

			if rootOpts.Format == "json" {
				payload := projectShowPayload{
					Name:       p.Name,
					LinkedFrom: p.LinkedFrom,
					Variables:  map[string]float64{},
					Bindings:   map[string]string{},
				}
				for _, v := range p.Variables() {
					payload.Variables[v.Name] = v.Value
				}
				for _, t := range p.Trajectories {
					payload.Trajectories = append(payload.Trajectories, t.Name)
				}
				for _, k := range reg.Keys() {
					expr, _ := reg.Get(k)
					payload.Bindings[k.String()] = expr
				}
				return formatter.Success(payload)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "project %s", p.Name)
			if p.LinkedFrom != "" {
				fmt.Fprintf(&b, " (variables linked from %s)", p.LinkedFrom)
			}
			b.WriteString("\nvariables:")
			for _, v := range p.Variables() {
				fmt.Fprintf(&b, "\n  %s = %g", v.Name, v.Value)
				if v.LinkedFrom != "" {
					fmt.Fprintf(&b, " (linked from %s)", v.LinkedFrom)
				}
			}
			b.WriteString("\ntrajectories:")
			for _, t := range p.Trajectories {
				fmt.Fprintf(&b, "\n  %s (%d waypoints)", t.Name, len(t.Waypoints))
				if t.Follows != "" {
					if prev, ok := p.Trajectory(t.Follows); ok {
						fmt.Fprintf(&b, " follows %s", prev.Name)
					}
				}
			}
			b.WriteString("\nbindings:")
			for _, k := range reg.Keys() {
				expr, _ := reg.Get(k)
				fmt.Fprintf(&b, "\n  %s = %s", k, expr)
			}
			return formatter.Success(b.String())
		},
	}
}

func newProjectsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <project>",
		Short:         "Delete a saved project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			st, err := openStore(rootOpts)
			if err != nil {
				return WrapExitError(ExitCommandError, "open project library", err)
			}
			defer st.Close()

			if err := st.DeleteProject(cmd.Context(), args[0]); err != nil {
				code := ExitCommandError
				if errors.Is(err, store.ErrNotFound) {
					code = ExitFailure
				}
				return WrapExitError(code, "delete project", err)
			}
			return formatter.Success(fmt.Sprintf("deleted %s", args[0]))
		},
	}
}
