package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_SealedInterface(t *testing.T) {
	// Every variant satisfies Item; exhaustive type switches work.
	variants := []Item{
		Ident("a"),
		String("hello"),
		Raw("*"),
		Todo("window functions"),
		Assign{LValue: "x", RValue: Ident("a")},
		NamedArg{Name: "by", Arg: Ident("a")},
		Query{Ident("a")},
		Pipeline{From("employees")},
		List{ListItem{Ident("a")}},
		Terms{Ident("a")},
		Items{Ident("a")},
		Idents{"a", "b"},
		Function{Name: "double", Args: []Ident{"x"}, Body: []Item{Ident("x")}},
		Table{Name: "t", Pipeline: Pipeline{From("employees")}},
		SString{SStringText("count("), SStringExpr{Expr: Ident("col")}, SStringText(")")},
	}
	for _, v := range variants {
		assert.NotEmpty(t, v.Tag())
	}
}

func TestItem_Tags(t *testing.T) {
	tests := []struct {
		item Item
		tag  string
	}{
		{Ident("a"), "ident"},
		{String("s"), "string"},
		{Raw("+"), "raw"},
		{Todo("later"), "todo"},
		{Assign{LValue: "x", RValue: Ident("a")}, "assign"},
		{NamedArg{Name: "by", Arg: Ident("a")}, "named_arg"},
		{Query{}, "query"},
		{Pipeline{}, "pipeline"},
		{List{}, "list"},
		{Terms{}, "terms"},
		{Items{}, "items"},
		{Idents{}, "idents"},
		{Function{}, "function"},
		{Table{}, "table"},
		{SString{}, "s_string"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tag, tt.item.Tag())
	}
}

func TestTransformation_Names(t *testing.T) {
	tests := []struct {
		transformation Transformation
		name           string
	}{
		{From("employees"), "from"},
		{Select{Ident("a")}, "select"},
		{Filter{Ident("a")}, "filter"},
		{Derive{{LValue: "x", RValue: Ident("a")}}, "derive"},
		{Aggregate{By: []Item{Ident("country")}}, "aggregate"},
		{Sort{Ident("a")}, "sort"},
		{Take(10), "take"},
		{Join{Ident("positions")}, "join"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.transformation.TransformationName())
	}
}

func TestFuncCall_NameIsItsOwn(t *testing.T) {
	// Func stages report the call's own name, not a fixed keyword.
	fc := FuncCall{Name: "ret", Args: []Item{Ident("price")}}
	assert.Equal(t, "ret", fc.TransformationName())
	assert.Equal(t, "func_call", fc.Tag())
}

func TestTransformation_IsAlsoItem(t *testing.T) {
	// The parser can place a bare transformation wherever an item goes.
	var item Item = From("employees")
	tr, ok := item.(Transformation)
	assert.True(t, ok)
	assert.Equal(t, "from", tr.TransformationName())
}

func TestPipeline_OrderPreserved(t *testing.T) {
	p := Pipeline{
		From("employees"),
		Filter{Terms{Ident("country"), Raw("=="), String("USA")}},
		Take(20),
	}
	assert.Len(t, p, 3)
	assert.Equal(t, "from", p[0].TransformationName())
	assert.Equal(t, "filter", p[1].TransformationName())
	assert.Equal(t, "take", p[2].TransformationName())
}
