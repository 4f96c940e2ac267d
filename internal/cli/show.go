package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/piper-lang/piper/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <tree-id>",
		Short: "Print a stored tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the tree store database")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *RootOptions, treeID, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer s.Close()

	item, err := s.GetTree(cmd.Context(), treeID)
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitFailure, "tree not found: "+treeID, nil)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "loading tree", err)
	}

	return formatter.EmitTree(item)
}
