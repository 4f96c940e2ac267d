package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/piper-lang/piper/internal/ast"
	"github.com/piper-lang/piper/internal/store"
)

// NewUnnestCommand creates the unnest command.
func NewUnnestCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var save bool

	cmd := &cobra.Command{
		Use:   "unnest <tree.json>",
		Short: "Collapse redundant Terms wrappers in a serialized tree",
		Long: `Load a serialized IR tree, run the unnest pass, and print the result.

Unnest transitively collapses singleton Terms wrappers while leaving
List boundaries and multi-element containers intact. With --save the
source and result trees are persisted to the store and the pass run is
recorded as provenance.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnnest(rootOpts, args[0], dbPath, save, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the tree store database")
	cmd.Flags().BoolVar(&save, "save", false, "save source and result trees and record provenance")

	return cmd
}

func runUnnest(opts *RootOptions, treePath, dbPath string, save bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if save && dbPath == "" {
		return WrapExitError(ExitCommandError, "--save requires --db", nil)
	}

	source, err := loadTreeArg(treePath)
	if err != nil {
		return err
	}

	result, err := ast.Unnest(source)
	if err != nil {
		return WrapExitError(ExitFailure, "unnest pass failed", err)
	}

	if save {
		if err := saveRun(cmd.Context(), dbPath, "unnest", source, result, formatter); err != nil {
			return err
		}
	}

	return formatter.EmitTree(result)
}

// loadTreeArg loads a tree argument, mapping load errors to exit codes.
func loadTreeArg(path string) (ast.Item, error) {
	item, err := LoadTree(path)
	if err == nil {
		return item, nil
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
		return nil, WrapExitError(ExitCommandError, "loading tree", err)
	}
	return nil, WrapExitError(ExitFailure, "loading tree", err)
}

// saveRun persists both endpoints of a pass application and the run
// linking them.
func saveRun(ctx context.Context, dbPath, pass string, source, result ast.Item, formatter *OutputFormatter) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer s.Close()

	sourceID, err := s.SaveTree(ctx, source)
	if err != nil {
		return WrapExitError(ExitFailure, "saving source tree", err)
	}
	resultID, err := s.SaveTree(ctx, result)
	if err != nil {
		return WrapExitError(ExitFailure, "saving result tree", err)
	}

	run := store.NewPassRun(pass, sourceID, resultID)
	if err := s.RecordPass(ctx, run); err != nil {
		return WrapExitError(ExitFailure, "recording pass run", err)
	}

	formatter.VerboseLog("saved %s -> %s (run %s)", sourceID, resultID, run.ID)
	return nil
}
