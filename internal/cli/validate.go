package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piper-lang/piper/internal/ast"
)

// ValidationResult holds validation results for a serialized tree.
type ValidationResult struct {
	Valid  bool   `json:"valid" yaml:"valid"`
	Tag    string `json:"tag,omitempty" yaml:"tag,omitempty"`
	TreeID string `json:"tree_id,omitempty" yaml:"tree_id,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <tree.json>",
		Short: "Validate a serialized tree against the node schema",
		Long: `Validate a serialized IR tree without running any pass.

Checks the tagged envelope against the node schema, decodes the tree,
and re-encodes it to confirm round-trip fidelity. Prints the root
variant tag and content-addressed tree ID on success.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, treePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	item, err := loadTreeArg(treePath)
	if err != nil {
		return err
	}

	// Round-trip check: the envelope must deserialize back to an equal
	// tree, which TreeID makes cheap to confirm.
	id, err := ast.TreeID(item)
	if err != nil {
		return WrapExitError(ExitFailure, "computing tree id", err)
	}
	reencoded, err := ast.MarshalItem(item)
	if err != nil {
		return WrapExitError(ExitFailure, "re-encoding tree", err)
	}
	back, err := ast.UnmarshalItem(reencoded)
	if err != nil {
		return WrapExitError(ExitFailure, "round-trip decode failed", err)
	}
	backID, err := ast.TreeID(back)
	if err != nil {
		return WrapExitError(ExitFailure, "computing round-trip tree id", err)
	}
	if backID != id {
		return WrapExitError(ExitFailure,
			fmt.Sprintf("round trip changed tree identity: %s != %s", backID, id), nil)
	}

	if opts.Format == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ valid %s tree (%s)\n", item.Tag(), id)
		return nil
	}
	return formatter.Success(ValidationResult{Valid: true, Tag: item.Tag(), TreeID: id})
}
