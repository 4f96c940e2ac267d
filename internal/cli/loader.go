package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/piper-lang/piper/internal/ast"
)

// Load error codes.
const (
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeParse    = "PARSE_ERROR"
	ErrCodeSchema   = "SCHEMA_ERROR"
	ErrCodeDecode   = "DECODE_ERROR"
)

// nodeSchema constrains the tagged envelope format: every node is a
// closed single-variant struct with a known tag. It checks the envelope
// shape; deep structure is checked by ast.UnmarshalItem.
const nodeSchema = `
#Node: close({ident: string}) |
	close({"string": string}) |
	close({raw: string}) |
	close({todo: string}) |
	close({from: string}) |
	close({take: int}) |
	close({query: [...]}) |
	close({terms: [...]}) |
	close({items: [...]}) |
	close({"select": [...]}) |
	close({filter: [...]}) |
	close({sort: [...]}) |
	close({join: [...]}) |
	close({idents: [...string]}) |
	close({pipeline: [...]}) |
	close({list: [...[...]]}) |
	close({assign: {lvalue: string, rvalue: _}}) |
	close({named_arg: {name: string, arg: _}}) |
	close({derive: [...{lvalue: string, rvalue: _}]}) |
	close({aggregate: {by: [...], calcs: [...], assigns: [...]}}) |
	close({function: {name: string, args: [...string], body: [...]}}) |
	close({table: {name: string, pipeline: [...]}}) |
	close({s_string: [...]}) |
	close({func_call: {name: string, args: [...], named_args: [...]}})
`

// LoadError represents an error that occurred while loading a tree.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTree reads a serialized tree from disk, validates the envelope
// against the CUE schema, and deserializes it. Schema validation runs
// before unmarshaling so malformed envelopes fail with a structural
// diagnostic instead of a decode error.
func LoadTree(path string) (ast.Item, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("tree file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading tree file: %v", err)}
	}

	if err := validateEnvelope(path, data); err != nil {
		return nil, err
	}

	item, err := ast.UnmarshalItem(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding tree: %v", err)}
	}
	return item, nil
}

// validateEnvelope checks the top-level envelope against the schema.
func validateEnvelope(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(nodeSchema)
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	node := schema.LookupPath(cue.ParsePath("#Node"))
	if err := node.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("schema has no #Node: %v", err)}
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing JSON: %v", err)}
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("building value: %v", err)}
	}

	unified := node.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("tree does not match node schema: %v", err)}
	}
	return nil
}
