package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeID_Deterministic(t *testing.T) {
	a, err := TreeID(richTree())
	require.NoError(t, err)
	b, err := TreeID(richTree())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex sha256
}

func TestTreeID_DistinguishesTrees(t *testing.T) {
	a, err := TreeID(Terms{Ident("a")})
	require.NoError(t, err)
	b, err := TreeID(Ident("a"))
	require.NoError(t, err)
	c, err := TreeID(Items{Ident("a")})
	require.NoError(t, err)

	// Wrapper kind and presence are part of identity.
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestTreeID_NFCNormalization(t *testing.T) {
	// "é" precomposed vs "e" + combining acute hash identically.
	composed, err := TreeID(String("café"))
	require.NoError(t, err)
	decomposed, err := TreeID(String("café"))
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
}

func TestTreeID_UnnestChangesIdentity(t *testing.T) {
	nested := Terms{Terms{Ident("a")}}
	flat, err := Unnest(nested)
	require.NoError(t, err)

	before, err := TreeID(nested)
	require.NoError(t, err)
	after, err := TreeID(flat)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}
