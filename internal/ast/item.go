package ast

// Item is the universal IR node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in passes and backends.
//
// Exactly one variant holds at a time:
//   - Transformation variants (From, Select, Filter, ...) - pipeline stages
//   - Ident, String, Raw - leaf tokens
//   - Assign, NamedArg - bindings and keyword arguments
//   - Query, Pipeline, List, Terms, Items, Idents - containers
//   - Function, Table - definitions
//   - SString - interpolated string
//   - Todo - unimplemented construct placeholder
type Item interface {
	itemNode() // Marker method - seals interface to this package

	// Tag returns the canonical lowercase variant name, used for
	// diagnostics and as the serialization envelope key.
	Tag() string
}

// Ident is a bare name, generally a column reference.
type Ident string

func (Ident) itemNode()   {}
func (Ident) Tag() string { return "ident" }

// String is a literal string.
type String string

func (String) itemNode()   {}
func (String) Tag() string { return "string" }

// Raw is literal text that bypasses further interpretation.
type Raw string

func (Raw) itemNode()   {}
func (Raw) Tag() string { return "raw" }

// Todo marks a construct the compiler does not implement yet. Passes must
// propagate it; a Todo reaching a point that needs a concrete value is an
// Unimplemented error, never a silent no-op.
type Todo string

func (Todo) itemNode()   {}
func (Todo) Tag() string { return "todo" }

// Assign is a binding, e.g. one entry of a derive.
type Assign struct {
	LValue Ident
	RValue Item
}

func (Assign) itemNode()   {}
func (Assign) Tag() string { return "assign" }

// NamedArg is a keyword argument to a call.
type NamedArg struct {
	Name Ident
	Arg  Item
}

func (NamedArg) itemNode()   {}
func (NamedArg) Tag() string { return "named_arg" }

// Query is the whole-program container.
type Query []Item

func (Query) itemNode()   {}
func (Query) Tag() string { return "query" }

// Pipeline is an ordered chain of transformations. Order is semantically
// significant: each stage consumes the previous stage's output.
type Pipeline []Transformation

func (Pipeline) itemNode()   {}
func (Pipeline) Tag() string { return "pipeline" }

// ListItem is one element of a List. It holds a sequence of items so that
// multi-token entries like `a b` keep their grouping.
type ListItem []Item

// List is an explicit list literal. Element boundaries are meaningful:
// unnesting a List changes semantics, so no pass may collapse one, even
// when it holds a single single-item ListItem.
type List []ListItem

func (List) itemNode()   {}
func (List) Tag() string { return "list" }

// Terms is a sequence of tokens that were not separated by an explicit
// list or argument boundary (e.g. operands and operators before binary
// expression folding). A Terms holding exactly one element is equivalent
// to that element alone, so unnesting it is semantics-preserving.
type Terms []Item

func (Terms) itemNode()   {}
func (Terms) Tag() string { return "terms" }

// Items is a generic grouping container. Unlike Terms, collapsing a
// singleton Items is not universally semantics-preserving; whether it is
// safe is a resolver-level policy, not decided here.
type Items []Item

func (Items) itemNode()   {}
func (Items) Tag() string { return "items" }

// Idents is a sequence of names.
type Idents []Ident

func (Idents) itemNode()   {}
func (Idents) Tag() string { return "idents" }

// Function is a user-defined function.
type Function struct {
	Name Ident
	Args []Ident
	Body []Item
}

func (Function) itemNode()   {}
func (Function) Tag() string { return "function" }

// Table is a named pipeline definition.
type Table struct {
	Name     Ident
	Pipeline Pipeline
}

func (Table) itemNode()   {}
func (Table) Tag() string { return "table" }

// SString is a string with interpolated sub-expressions, e.g.
// s"count({col})".
type SString []SStringItem

func (SString) itemNode()   {}
func (SString) Tag() string { return "s_string" }

// SStringItem is one fragment of an SString: either literal text or an
// embedded expression. Sealed like Item.
type SStringItem interface {
	sstringItemNode()
}

// SStringText is a literal fragment of an SString.
type SStringText string

func (SStringText) sstringItemNode() {}

// SStringExpr is an embedded expression fragment of an SString.
type SStringExpr struct {
	Expr Item
}

func (SStringExpr) sstringItemNode() {}
