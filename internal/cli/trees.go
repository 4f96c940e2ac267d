package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piper-lang/piper/internal/store"
)

// TreeListing is the trees command payload for structured formats.
type TreeListing struct {
	Trees  []TreeInfo `json:"trees" yaml:"trees"`
	Passes []PassInfo `json:"passes" yaml:"passes"`
}

// TreeInfo describes one stored tree.
type TreeInfo struct {
	ID  string `json:"id" yaml:"id"`
	Tag string `json:"tag" yaml:"tag"`
	Seq int64  `json:"seq" yaml:"seq"`
}

// PassInfo describes one recorded pass run.
type PassInfo struct {
	ID       string `json:"id" yaml:"id"`
	Pass     string `json:"pass" yaml:"pass"`
	SourceID string `json:"source_id" yaml:"source_id"`
	ResultID string `json:"result_id" yaml:"result_id"`
	Seq      int64  `json:"seq" yaml:"seq"`
}

// NewTreesCommand creates the trees command.
func NewTreesCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "trees",
		Short: "List stored trees and recorded pass runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrees(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the tree store database")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runTrees(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
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

	trees, err := s.ListTrees(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "listing trees", err)
	}
	passes, err := s.ListPasses(cmd.Context(), "")
	if err != nil {
		return WrapExitError(ExitFailure, "listing passes", err)
	}

	if opts.Format == "text" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d tree(s)\n", len(trees))
		for _, t := range trees {
			fmt.Fprintf(out, "  %s  %s\n", t.ID, t.Tag)
		}
		fmt.Fprintf(out, "%d pass run(s)\n", len(passes))
		for _, p := range passes {
			fmt.Fprintf(out, "  %s  %s -> %s\n", p.Pass, p.SourceID, p.ResultID)
		}
		return nil
	}

	listing := TreeListing{Trees: []TreeInfo{}, Passes: []PassInfo{}}
	for _, t := range trees {
		listing.Trees = append(listing.Trees, TreeInfo{ID: t.ID, Tag: t.Tag, Seq: t.Seq})
	}
	for _, p := range passes {
		listing.Passes = append(listing.Passes, PassInfo{
			ID: p.ID, Pass: p.Pass, SourceID: p.SourceID, ResultID: p.ResultID, Seq: p.Seq,
		})
	}
	return formatter.Success(listing)
}
