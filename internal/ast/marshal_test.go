package ast

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalItem_Envelope(t *testing.T) {
	data, err := MarshalItem(Ident("a"))
	require.NoError(t, err)
	assert.Equal(t, `{"ident":"a"}`, string(data))

	data, err = MarshalItem(Terms{Ident("a"), Raw("+"), Ident("b")})
	require.NoError(t, err)
	assert.Equal(t, `{"terms":[{"ident":"a"},{"raw":"+"},{"ident":"b"}]}`, string(data))

	data, err = MarshalItem(Take(50))
	require.NoError(t, err)
	assert.Equal(t, `{"take":50}`, string(data))
}

func TestMarshalItem_RoundTrip(t *testing.T) {
	trees := []Item{
		Ident("a"),
		String("héllo"),
		Raw("=="),
		Todo("window functions"),
		Take(50),
		From("employees"),
		Idents{"a", "b"},
		Terms{Ident("a"), Raw("+"), Ident("b")},
		List{ListItem{Ident("a")}, ListItem{Ident("a"), Ident("b")}},
		SString{SStringText("count("), SStringExpr{Expr: Ident("col")}, SStringText(")")},
		NamedArg{Name: "side", Arg: String("left")},
		richTree(),
	}
	for _, tree := range trees {
		data, err := MarshalItem(tree)
		require.NoError(t, err)

		back, err := UnmarshalItem(data)
		require.NoError(t, err, "unmarshal %s", string(data))
		assert.Equal(t, tree, back, "round trip of %s", tree.Tag())
	}
}

func TestUnmarshalItem_UnknownTag(t *testing.T) {
	_, err := UnmarshalItem([]byte(`{"window":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window")
}

func TestUnmarshalItem_MultiKeyEnvelope(t *testing.T) {
	_, err := UnmarshalItem([]byte(`{"ident":"a","raw":"+"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one variant")
}

func TestUnmarshalItem_PipelineStageMustBeTransformation(t *testing.T) {
	_, err := UnmarshalItem([]byte(`{"pipeline":[{"ident":"a"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a transformation")
}

func TestRender_NamesVariant(t *testing.T) {
	rendered := Render(Terms{Ident("a")})
	assert.Equal(t, `{"terms":[{"ident":"a"}]}`, rendered)

	assert.Equal(t, "<nil>", Render(nil))
}

func TestMarshalItem_Golden(t *testing.T) {
	tree := Query{
		Table{
			Name: "newest_employees",
			Pipeline: Pipeline{
				From("employees"),
				Sort{Ident("tenure")},
				Take(50),
			},
		},
	}

	data, err := MarshalItem(tree)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "pipeline_tree", data)
}

func TestMarshalCanonicalItem_Golden(t *testing.T) {
	tree := Aggregate{
		By:    []Item{Ident("title")},
		Calcs: []Item{Terms{Raw("sum"), Ident("salary")}},
		Assigns: []Assign{
			{LValue: "total", RValue: SString{SStringText("count(*)")}},
		},
	}

	data, err := MarshalCanonicalItem(tree)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "aggregate_canonical", data)
}

func TestMarshalCanonicalItem_StillAnEnvelope(t *testing.T) {
	tree := richTree()
	canonical, err := MarshalCanonicalItem(tree)
	require.NoError(t, err)

	back, err := UnmarshalItem(canonical)
	require.NoError(t, err)
	assert.Equal(t, tree, back)
}

func TestMarshalCanonicalItem_NoHTMLEscaping(t *testing.T) {
	canonical, err := MarshalCanonicalItem(Raw("a < b && c > d"))
	require.NoError(t, err)
	assert.Equal(t, `{"raw":"a < b && c > d"}`, string(canonical))
}
