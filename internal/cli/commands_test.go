package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piper-lang/piper/internal/ast"
	"github.com/piper-lang/piper/internal/store"
)

// runCLI executes the root command with the given args and returns
// captured output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	path := writeTreeFile(t, `{"ident":"a"}`)

	_, err := runCLI(t, "validate", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestUnnestCommand_CollapsesNestedTerms(t *testing.T) {
	path := writeTreeFile(t, `{"terms":[{"terms":[{"ident":"a"}]}]}`)

	out, err := runCLI(t, "unnest", path, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"ident":"a"}`+"\n", out)
}

func TestUnnestCommand_TextFormat(t *testing.T) {
	path := writeTreeFile(t, `{"terms":[{"ident":"a"},{"raw":"+"},{"ident":"b"}]}`)

	out, err := runCLI(t, "unnest", path)
	require.NoError(t, err)
	// Multi-element Terms survive the pass unchanged.
	assert.Equal(t, `{"terms":[{"ident":"a"},{"raw":"+"},{"ident":"b"}]}`+"\n", out)
}

func TestUnnestCommand_MissingFile(t *testing.T) {
	_, err := runCLI(t, "unnest", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnnestCommand_SaveRequiresDB(t *testing.T) {
	path := writeTreeFile(t, `{"ident":"a"}`)

	_, err := runCLI(t, "unnest", path, "--save")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--save requires --db")
}

func TestUnnestCommand_SaveRecordsProvenance(t *testing.T) {
	path := writeTreeFile(t, `{"terms":[{"terms":[{"ident":"a"}]}]}`)
	dbPath := filepath.Join(t.TempDir(), "trees.db")

	_, err := runCLI(t, "unnest", path, "--db", dbPath, "--save", "--format", "json")
	require.NoError(t, err)

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	trees, err := s.ListTrees(ctx)
	require.NoError(t, err)
	require.Len(t, trees, 2)

	passes, err := s.ListPasses(ctx, "")
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, "unnest", passes[0].Pass)

	sourceID, err := ast.TreeID(ast.Terms{ast.Terms{ast.Ident("a")}})
	require.NoError(t, err)
	resultID, err := ast.TreeID(ast.Ident("a"))
	require.NoError(t, err)
	assert.Equal(t, sourceID, passes[0].SourceID)
	assert.Equal(t, resultID, passes[0].ResultID)
}

func TestValidateCommand_Text(t *testing.T) {
	path := writeTreeFile(t, `{"terms":[{"ident":"a"},{"raw":"+"},{"ident":"b"}]}`)

	out, err := runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ valid terms tree")
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeTreeFile(t, `{"from":"employees"}`)

	out, err := runCLI(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, "from", data["tag"])

	wantID, err := ast.TreeID(ast.From("employees"))
	require.NoError(t, err)
	assert.Equal(t, wantID, data["tree_id"])
}

func TestValidateCommand_SchemaFailure(t *testing.T) {
	path := writeTreeFile(t, `{"window":{}}`)

	_, err := runCLI(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestShowCommand_PrintsStoredTree(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trees.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	tree := ast.Terms{ast.Ident("salary"), ast.Raw("*"), ast.Raw("2")}
	id, err := s.SaveTree(context.Background(), tree)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := runCLI(t, "show", id, "--db", dbPath, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"terms":[{"ident":"salary"},{"raw":"*"},{"raw":"2"}]}`+"\n", out)
}

func TestShowCommand_UnknownID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trees.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = runCLI(t, "show", strings.Repeat("0", 64), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "tree not found")
}

func TestTreesCommand_Text(t *testing.T) {
	path := writeTreeFile(t, `{"terms":[{"terms":[{"ident":"a"}]}]}`)
	dbPath := filepath.Join(t.TempDir(), "trees.db")

	_, err := runCLI(t, "unnest", path, "--db", dbPath, "--save")
	require.NoError(t, err)

	out, err := runCLI(t, "trees", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 tree(s)")
	assert.Contains(t, out, "1 pass run(s)")
	assert.Contains(t, out, "unnest")
}

func TestTreesCommand_EmptyStoreJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trees.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := runCLI(t, "trees", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Empty(t, data["trees"])
	assert.Empty(t, data["passes"])
}
