package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piper-lang/piper/internal/ast"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad flag", nil)))

	// Exit codes survive wrapping.
	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", nil))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitFailure, "saving tree", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "saving tree: disk full", err.Error())
}

func TestEmitTree_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	err := f.EmitTree(ast.Terms{ast.Ident("a"), ast.Raw("+")})
	assert.NoError(t, err)
	assert.Equal(t, `{"terms":[{"ident":"a"},{"raw":"+"}]}`+"\n", buf.String())
}

func TestEmitTree_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.EmitTree(ast.Ident("salary"))
	assert.NoError(t, err)
	assert.Equal(t, `{"ident":"salary"}`+"\n", buf.String())
}

func TestEmitTree_YAML(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "yaml", Writer: &buf}

	err := f.EmitTree(ast.From("employees"))
	assert.NoError(t, err)
	assert.Equal(t, "from: employees\n", buf.String())
}

func TestVerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: false}

	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("saved %s", "abc")
	assert.Equal(t, "saved abc\n", errOut.String())
	assert.Empty(t, out.String(), "verbose output must not corrupt structured output")
}
