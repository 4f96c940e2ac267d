package ast

import "fmt"

// Folder is a generic, overridable tree traversal: it produces a new tree
// from an old one by visiting every node and substructure.
//
// Each field is a hook for one structural recursion point. A pass sets
// only the hooks for the node kinds it cares about; every nil hook falls
// back to the default recursive rebuild (the exported Fold* functions),
// which folds all children and leaves non-recursive fields unchanged.
// A hook receives the folder so it can delegate back into the default,
// the usual shape being "adjust the node, then FoldItemDefault".
//
// Because the defaults type-switch over sealed interfaces, adding a node
// kind to the model means extending exactly the defaults here - passes
// never need to change.
//
// Folding may fail; the first error aborts the whole traversal and no
// partial tree is returned.
type Folder struct {
	Item           func(*Folder, Item) (Item, error)
	Transformation func(*Folder, Transformation) (Transformation, error)
	Pipeline       func(*Folder, Pipeline) (Pipeline, error)
	Assign         func(*Folder, Assign) (Assign, error)
	NamedArg       func(*Folder, NamedArg) (NamedArg, error)
	ListItem       func(*Folder, ListItem) (ListItem, error)
	SStringItem    func(*Folder, SStringItem) (SStringItem, error)
	Function       func(*Folder, Function) (Function, error)
	Table          func(*Folder, Table) (Table, error)
	FuncCall       func(*Folder, FuncCall) (FuncCall, error)
}

// FoldItem dispatches to the Item hook, or to the default rebuild.
func (f *Folder) FoldItem(item Item) (Item, error) {
	if f.Item != nil {
		return f.Item(f, item)
	}
	return FoldItemDefault(f, item)
}

// FoldTransformation dispatches to the Transformation hook, or to the
// default rebuild.
func (f *Folder) FoldTransformation(t Transformation) (Transformation, error) {
	if f.Transformation != nil {
		return f.Transformation(f, t)
	}
	return FoldTransformationDefault(f, t)
}

// FoldPipeline dispatches to the Pipeline hook, or to the default.
func (f *Folder) FoldPipeline(p Pipeline) (Pipeline, error) {
	if f.Pipeline != nil {
		return f.Pipeline(f, p)
	}
	return FoldPipelineDefault(f, p)
}

// FoldAssign dispatches to the Assign hook, or to the default.
func (f *Folder) FoldAssign(a Assign) (Assign, error) {
	if f.Assign != nil {
		return f.Assign(f, a)
	}
	return FoldAssignDefault(f, a)
}

// FoldNamedArg dispatches to the NamedArg hook, or to the default.
func (f *Folder) FoldNamedArg(na NamedArg) (NamedArg, error) {
	if f.NamedArg != nil {
		return f.NamedArg(f, na)
	}
	return FoldNamedArgDefault(f, na)
}

// FoldListItem dispatches to the ListItem hook, or to the default.
func (f *Folder) FoldListItem(li ListItem) (ListItem, error) {
	if f.ListItem != nil {
		return f.ListItem(f, li)
	}
	return FoldListItemDefault(f, li)
}

// FoldSStringItem dispatches to the SStringItem hook, or to the default.
func (f *Folder) FoldSStringItem(si SStringItem) (SStringItem, error) {
	if f.SStringItem != nil {
		return f.SStringItem(f, si)
	}
	return FoldSStringItemDefault(f, si)
}

// FoldFunction dispatches to the Function hook, or to the default.
func (f *Folder) FoldFunction(fn Function) (Function, error) {
	if f.Function != nil {
		return f.Function(f, fn)
	}
	return FoldFunctionDefault(f, fn)
}

// FoldTable dispatches to the Table hook, or to the default.
func (f *Folder) FoldTable(t Table) (Table, error) {
	if f.Table != nil {
		return f.Table(f, t)
	}
	return FoldTableDefault(f, t)
}

// FoldFuncCall dispatches to the FuncCall hook, or to the default.
func (f *Folder) FoldFuncCall(fc FuncCall) (FuncCall, error) {
	if f.FuncCall != nil {
		return f.FuncCall(f, fc)
	}
	return FoldFuncCallDefault(f, fc)
}

// FoldItemDefault rebuilds an item with all children recursively folded.
// Leaves (Ident, String, Raw, Todo, Idents) pass through unchanged.
// Hooks call this to resume the default traversal below themselves.
func FoldItemDefault(f *Folder, item Item) (Item, error) {
	switch v := item.(type) {
	case Ident, String, Raw, Todo, Idents:
		return item, nil
	case Transformation:
		t, err := f.FoldTransformation(v)
		if err != nil {
			return nil, err
		}
		return t, nil
	case Query:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Query(items), nil
	case Terms:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Terms(items), nil
	case Items:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Items(items), nil
	case Pipeline:
		return f.FoldPipeline(v)
	case List:
		list := make(List, len(v))
		for i, li := range v {
			folded, err := f.FoldListItem(li)
			if err != nil {
				return nil, err
			}
			list[i] = folded
		}
		return list, nil
	case Assign:
		return f.FoldAssign(v)
	case NamedArg:
		return f.FoldNamedArg(v)
	case Function:
		return f.FoldFunction(v)
	case Table:
		return f.FoldTable(v)
	case SString:
		s := make(SString, len(v))
		for i, frag := range v {
			folded, err := f.FoldSStringItem(frag)
			if err != nil {
				return nil, err
			}
			s[i] = folded
		}
		return s, nil
	default:
		return nil, fmt.Errorf("fold: unknown item type %T", item)
	}
}

// FoldTransformationDefault rebuilds a transformation with its item
// children folded; scalar fields (source name, take count) are kept.
func FoldTransformationDefault(f *Folder, t Transformation) (Transformation, error) {
	switch v := t.(type) {
	case From, Take:
		return t, nil
	case Select:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Select(items), nil
	case Filter:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Filter(items), nil
	case Sort:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Sort(items), nil
	case Join:
		items, err := foldItems(f, v)
		if err != nil {
			return nil, err
		}
		return Join(items), nil
	case Derive:
		assigns, err := foldAssigns(f, v)
		if err != nil {
			return nil, err
		}
		return Derive(assigns), nil
	case Aggregate:
		by, err := foldItems(f, v.By)
		if err != nil {
			return nil, err
		}
		calcs, err := foldItems(f, v.Calcs)
		if err != nil {
			return nil, err
		}
		assigns, err := foldAssigns(f, v.Assigns)
		if err != nil {
			return nil, err
		}
		return Aggregate{By: by, Calcs: calcs, Assigns: assigns}, nil
	case FuncCall:
		return f.FoldFuncCall(v)
	default:
		return nil, fmt.Errorf("fold: unknown transformation type %T", t)
	}
}

// FoldPipelineDefault folds every stage of a pipeline in order.
func FoldPipelineDefault(f *Folder, p Pipeline) (Pipeline, error) {
	if p == nil {
		return nil, nil
	}
	out := make(Pipeline, len(p))
	for i, t := range p {
		folded, err := f.FoldTransformation(t)
		if err != nil {
			return nil, err
		}
		out[i] = folded
	}
	return out, nil
}

// FoldAssignDefault folds the bound value; the name is kept.
func FoldAssignDefault(f *Folder, a Assign) (Assign, error) {
	rvalue, err := f.FoldItem(a.RValue)
	if err != nil {
		return Assign{}, err
	}
	return Assign{LValue: a.LValue, RValue: rvalue}, nil
}

// FoldNamedArgDefault folds the argument value; the name is kept.
func FoldNamedArgDefault(f *Folder, na NamedArg) (NamedArg, error) {
	arg, err := f.FoldItem(na.Arg)
	if err != nil {
		return NamedArg{}, err
	}
	return NamedArg{Name: na.Name, Arg: arg}, nil
}

// FoldListItemDefault folds the items of one list element. The element
// boundary itself is preserved.
func FoldListItemDefault(f *Folder, li ListItem) (ListItem, error) {
	items, err := foldItems(f, li)
	if err != nil {
		return nil, err
	}
	return ListItem(items), nil
}

// FoldSStringItemDefault folds the expression of an interpolated
// fragment; literal text passes through.
func FoldSStringItemDefault(f *Folder, si SStringItem) (SStringItem, error) {
	switch v := si.(type) {
	case SStringText:
		return v, nil
	case SStringExpr:
		expr, err := f.FoldItem(v.Expr)
		if err != nil {
			return nil, err
		}
		return SStringExpr{Expr: expr}, nil
	default:
		return nil, fmt.Errorf("fold: unknown s-string fragment type %T", si)
	}
}

// FoldFunctionDefault folds the body; name and argument names are kept.
func FoldFunctionDefault(f *Folder, fn Function) (Function, error) {
	body, err := foldItems(f, fn.Body)
	if err != nil {
		return Function{}, err
	}
	return Function{Name: fn.Name, Args: fn.Args, Body: body}, nil
}

// FoldTableDefault folds the pipeline; the table name is kept.
func FoldTableDefault(f *Folder, t Table) (Table, error) {
	pipeline, err := f.FoldPipeline(t.Pipeline)
	if err != nil {
		return Table{}, err
	}
	return Table{Name: t.Name, Pipeline: pipeline}, nil
}

// FoldFuncCallDefault folds positional and named arguments; the call
// name is kept.
func FoldFuncCallDefault(f *Folder, fc FuncCall) (FuncCall, error) {
	args, err := foldItems(f, fc.Args)
	if err != nil {
		return FuncCall{}, err
	}
	var named []NamedArg
	if fc.NamedArgs != nil {
		named = make([]NamedArg, len(fc.NamedArgs))
		for i, na := range fc.NamedArgs {
			folded, err := f.FoldNamedArg(na)
			if err != nil {
				return FuncCall{}, err
			}
			named[i] = folded
		}
	}
	return FuncCall{Name: fc.Name, Args: args, NamedArgs: named}, nil
}

func foldItems(f *Folder, items []Item) ([]Item, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		folded, err := f.FoldItem(item)
		if err != nil {
			return nil, err
		}
		out[i] = folded
	}
	return out, nil
}

func foldAssigns(f *Folder, assigns []Assign) ([]Assign, error) {
	if assigns == nil {
		return nil, nil
	}
	out := make([]Assign, len(assigns))
	for i, a := range assigns {
		folded, err := f.FoldAssign(a)
		if err != nil {
			return nil, err
		}
		out[i] = folded
	}
	return out, nil
}
