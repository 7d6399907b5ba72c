package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/graph"
)

// NewChainsCommand creates the chains command.
func NewChainsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains <project>",
		Short: "Show the chain groups of a stored project",
		Long: `Show how a project's trajectories partition into chain groups.

Each group is a root trajectory followed by its transitive followers in
chain order. Unnamed groups print their root trajectory's name in
parentheses.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChains(cmd, rootOpts, args[0])
		},
	}

	return cmd
}

type chainPayload struct {
	RootID  string   `json:"rootId"`
	Name    string   `json:"name,omitempty"`
	Members []string `json:"members"`
}

func runChains(cmd *cobra.Command, opts *RootOptions, name string) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project library", err)
	}
	defer st.Close()

	p, _, result, err := st.LoadProject(cmd.Context(), name)
	if err != nil {
		return WrapExitError(ExitCommandError, "load project", err)
	}
	for _, be := range result.Errors {
		formatter.VerboseLog("binding %s: %s", be.Key, be.Err)
	}

	groups := graph.ComputeGroups(p)

	if opts.Format == "json" {
		payload := make([]chainPayload, 0, len(groups))
		for _, g := range groups {
			members := make([]string, 0, len(g.Members))
			for _, m := range g.Members {
				members = append(members, m.Name)
			}
			payload = append(payload, chainPayload{RootID: g.RootID, Name: g.Name, Members: members})
		}
		return formatter.Success(payload)
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := g.Name
		if label == "" {
			label = fmt.Sprintf("(%s)", g.Members[0].Name)
		}
		names := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			names = append(names, m.Name)
		}
		fmt.Fprintf(&b, "%s: %s", label, strings.Join(names, " -> "))
	}
	if len(groups) == 0 {
		b.WriteString("no trajectories")
	}
	return formatter.Success(b.String())
}
