package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// NewRemoveTrajectoryCommand creates the remove-trajectory command.
func NewRemoveTrajectoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-trajectory <project> <trajectory>",
		Short: "Remove a trajectory and its bindings from a stored project",
		Long: `Remove a trajectory from a stored project and save.

The trajectory is matched by name or id. Followers are unhooked, a group
name on the removed root transfers to its first follower, and every
binding addressing the trajectory is dropped with it.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoveTrajectory(cmd, rootOpts, args[0], args[1])
		},
	}

	return cmd
}

type removeTrajectoryPayload struct {
	Project         string   `json:"project"`
	Trajectory      string   `json:"trajectory"`
	RemovedBindings []string `json:"removedBindings,omitempty"`
}

func runRemoveTrajectory(cmd *cobra.Command, opts *RootOptions, projectName, trajectoryName string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project library", err)
	}
	defer st.Close()

	p, reg, _, err := st.LoadProject(cmd.Context(), projectName)
	if err != nil {
		return WrapExitError(ExitCommandError, "load project", err)
	}

	target := findTrajectory(p, trajectoryName)
	if target == nil {
		return NewExitError(ExitFailure,
			fmt.Sprintf("trajectory %q not found in project %q", trajectoryName, projectName))
	}

	removed := reg.RemoveTrajectoryBindings(target.ID)
	p.RemoveTrajectory(target.ID)

	if err := st.SaveProject(cmd.Context(), p, reg); err != nil {
		return WrapExitError(ExitCommandError, "save project", err)
	}

	if opts.Format == "json" {
		return formatter.Success(removeTrajectoryPayload{
			Project:         projectName,
			Trajectory:      target.Name,
			RemovedBindings: keyStrings(removed),
		})
	}
	return formatter.Success(fmt.Sprintf("removed %s (%d binding(s) dropped)", target.Name, len(removed)))
}

// findTrajectory matches by id first, then by name.
func findTrajectory(p *project.Project, nameOrID string) *project.Trajectory {
	if t, ok := p.Trajectory(nameOrID); ok {
		return t
	}
	for _, t := range p.Trajectories {
		if t.Name == nameOrID {
			return t
		}
	}
	return nil
}
