package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/expr"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	Root    *RootOptions
	Project string   // evaluate against a stored project's variables
	Vars    []string // name=value pairs
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{Root: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Long: `Evaluate an arithmetic expression and print its value.

Variables come from --var flags, or from a stored project's variable table
with --project. Both may be combined; --var wins on collision.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "stored project whose variables are in scope")
	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "variable as name=value (repeatable)")

	return cmd
}

type evalPayload struct {
	Expression string   `json:"expression"`
	Value      float64  `json:"value"`
	Variables  []string `json:"variables"`
}

func runEval(cmd *cobra.Command, opts *EvalOptions, input string) error {
	formatter := newFormatter(opts.Root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	vars := expr.MapSource{}
	if opts.Project != "" {
		st, err := openStore(opts.Root)
		if err != nil {
			return WrapExitError(ExitCommandError, "open project library", err)
		}
		defer st.Close()

		p, _, _, err := st.LoadProject(cmd.Context(), opts.Project)
		if err != nil {
			return WrapExitError(ExitCommandError, "load project", err)
		}
		for _, v := range p.Variables() {
			vars[v.Name] = v.Value
		}
	}
	for _, pair := range opts.Vars {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --var %q: want name=value", pair))
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --var %q", pair), err)
		}
		vars[name] = value
	}

	value, evalErr := expr.Evaluate(input, vars)
	if evalErr != nil {
		if err := formatter.Error(evalErr.Error(), evalErr); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "evaluation failed")
	}

	names := expr.ExtractVariables(input)
	sort.Strings(names)
	if opts.Root.Format == "json" {
		return formatter.Success(evalPayload{Expression: input, Value: value, Variables: names})
	}
	return formatter.Success(strconv.FormatFloat(value, 'g', -1, 64))
}
