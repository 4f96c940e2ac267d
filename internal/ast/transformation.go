package ast

// Transformation is one stage of a query pipeline.
//
// This is a sealed interface - only types in this package implement it.
// Every Transformation is also an Item, mirroring the way the parser can
// produce a bare transformation wherever an item is expected.
//
// Distinguishing an ordinary function call (FuncCall) from a true
// transformation is the resolver's responsibility, not enforced here.
type Transformation interface {
	Item
	transformationNode() // Marker method - seals interface to this package

	// TransformationName returns the canonical lowercase keyword for the
	// stage, used for diagnostics. For FuncCall it is the call's own name.
	TransformationName() string
}

// From names the source relation of a pipeline.
type From Ident

func (From) itemNode()                  {}
func (From) transformationNode()        {}
func (From) Tag() string                { return "from" }
func (From) TransformationName() string { return "from" }

// Select projects a set of expressions.
type Select []Item

func (Select) itemNode()                  {}
func (Select) transformationNode()        {}
func (Select) Tag() string                { return "select" }
func (Select) TransformationName() string { return "select" }

// Filter keeps rows matching its expressions.
type Filter []Item

func (Filter) itemNode()                  {}
func (Filter) transformationNode()        {}
func (Filter) Tag() string                { return "filter" }
func (Filter) TransformationName() string { return "filter" }

// Derive introduces computed bindings.
type Derive []Assign

func (Derive) itemNode()                  {}
func (Derive) transformationNode()        {}
func (Derive) Tag() string                { return "derive" }
func (Derive) TransformationName() string { return "derive" }

// Aggregate groups by a set of expressions and computes calculations,
// either bare (Calcs) or named (Assigns).
type Aggregate struct {
	By      []Item
	Calcs   []Item
	Assigns []Assign
}

func (Aggregate) itemNode()                  {}
func (Aggregate) transformationNode()        {}
func (Aggregate) Tag() string                { return "aggregate" }
func (Aggregate) TransformationName() string { return "aggregate" }

// Sort orders rows by its expressions.
type Sort []Item

func (Sort) itemNode()                  {}
func (Sort) transformationNode()        {}
func (Sort) Tag() string                { return "sort" }
func (Sort) TransformationName() string { return "sort" }

// Take limits the row count.
type Take int64

func (Take) itemNode()                  {}
func (Take) transformationNode()        {}
func (Take) Tag() string                { return "take" }
func (Take) TransformationName() string { return "take" }

// Join combines the pipeline with another relation.
type Join []Item

func (Join) itemNode()                  {}
func (Join) transformationNode()        {}
func (Join) Tag() string                { return "join" }
func (Join) TransformationName() string { return "join" }

// FuncCall is an unresolved call appearing in transformation position.
type FuncCall struct {
	Name      string
	Args      []Item
	NamedArgs []NamedArg
}

func (FuncCall) itemNode()           {}
func (FuncCall) transformationNode() {}
func (FuncCall) Tag() string         { return "func_call" }

func (f FuncCall) TransformationName() string { return f.Name }
