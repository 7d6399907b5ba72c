package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veratay/mecanum-trajopt/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	Root    *RootOptions
	Project string // validate a stored project instead of a file
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{Root: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a project document against the schema",
		Long: `Validate a project document against the embedded schema.

Reads the document from the given file, or from the project library with
--project. All violations are reported at once.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "stored project to validate")

	return cmd
}

type validatePayload struct {
	Source string         `json:"source"`
	Valid  bool           `json:"valid"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, args []string) error {
	formatter := newFormatter(opts.Root, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var (
		source string
		data   []byte
	)
	switch {
	case opts.Project != "" && len(args) > 0:
		return NewExitError(ExitCommandError, "pass a file or --project, not both")
	case opts.Project != "":
		st, err := openStore(opts.Root)
		if err != nil {
			return WrapExitError(ExitCommandError, "open project library", err)
		}
		defer st.Close()

		data, err = st.RawDocument(cmd.Context(), opts.Project)
		if err != nil {
			return WrapExitError(ExitCommandError, "read project document", err)
		}
		source = opts.Project
	case len(args) > 0:
		var err error
		data, err = os.ReadFile(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "read document", err)
		}
		source = args[0]
	default:
		return NewExitError(ExitCommandError, "nothing to validate: pass a file or --project")
	}

	issues, err := schema.Validate(data)
	if err != nil {
		if werr := formatter.Error(err.Error(), nil); werr != nil {
			return werr
		}
		return NewExitError(ExitFailure, "document is not valid JSON")
	}

	if opts.Root.Format == "json" {
		if err := formatter.Success(validatePayload{Source: source, Valid: len(issues) == 0, Issues: issues}); err != nil {
			return err
		}
	} else if len(issues) == 0 {
		if err := formatter.Success(fmt.Sprintf("%s: valid", source)); err != nil {
			return err
		}
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "%s: %d issue(s)", source, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(&b, "\n  %s", issue)
		}
		if err := formatter.Success(b.String()); err != nil {
			return err
		}
	}

	if len(issues) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(issues)))
	}
	return nil
}
