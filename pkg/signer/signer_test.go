package signer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/signer"
)

func TestSignOrderIndependence(t *testing.T) {
	t.Parallel()

	a, err := signer.Sign(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	b, err := signer.Sign(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSignContentSensitivity(t *testing.T) {
	t.Parallel()

	a, err := signer.Sign(map[string]any{"x": 1})
	require.NoError(t, err)
	b, err := signer.Sign(map[string]any{"x": 2})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSignArrayOrderSignificant(t *testing.T) {
	t.Parallel()

	a, err := signer.Sign([]any{"x", "y"})
	require.NoError(t, err)
	b, err := signer.Sign([]any{"y", "x"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSignNilVsNullString(t *testing.T) {
	t.Parallel()

	a, err := signer.Sign(map[string]any{"v": nil})
	require.NoError(t, err)
	b, err := signer.Sign(map[string]any{"v": "null"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSignTypeDistinction(t *testing.T) {
	t.Parallel()

	asBool, err := signer.Sign(map[string]any{"v": true})
	require.NoError(t, err)
	asString, err := signer.Sign(map[string]any{"v": "true"})
	require.NoError(t, err)

	assert.NotEqual(t, asBool, asString)
}

func TestSignNumericEquivalence(t *testing.T) {
	t.Parallel()

	// Ints and the float64 values a JSON round trip produces must agree,
	// otherwise a decoded state would never match its in-memory twin.
	a, err := signer.Sign(map[string]any{"page": 2})
	require.NoError(t, err)
	b, err := signer.Sign(map[string]any{"page": float64(2)})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSignStructNormalization(t *testing.T) {
	t.Parallel()

	type params struct {
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
		Query string `json:"query"`
	}

	a, err := signer.Sign(params{Page: 1, Limit: 20, Query: "go"})
	require.NoError(t, err)
	b, err := signer.Sign(map[string]any{"page": 1, "limit": 20, "query": "go"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSignDigestShape(t *testing.T) {
	t.Parallel()

	sig, err := signer.Sign(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Len(t, sig, 32)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	value := map[string]any{"search": "go", "page": 3}
	sig, err := signer.Sign(value)
	require.NoError(t, err)

	assert.True(t, signer.Validate(map[string]any{"page": 3, "search": "go"}, sig))
	assert.False(t, signer.Validate(map[string]any{"page": 4, "search": "go"}, sig))
	assert.False(t, signer.Validate(value, "not-a-digest"))
}

func TestSignStructuralDistinction(t *testing.T) {
	t.Parallel()

	t.Run("dotted key vs nested map", func(t *testing.T) {
		t.Parallel()

		dotted, err := signer.Sign(map[string]any{"filters": map[string]any{"user.name": "x"}})
		require.NoError(t, err)
		nested, err := signer.Sign(map[string]any{"filters": map[string]any{"user": map[string]any{"name": "x"}}})
		require.NoError(t, err)

		assert.NotEqual(t, dotted, nested)
	})

	t.Run("newline in string cannot forge leaves", func(t *testing.T) {
		t.Parallel()

		single, err := signer.Sign(map[string]any{"a": "x\ny:s:z"})
		require.NoError(t, err)
		pair, err := signer.Sign(map[string]any{"a": "x", "y": "z"})
		require.NoError(t, err)

		assert.NotEqual(t, single, pair)
	})

	t.Run("colon in key vs colon in value", func(t *testing.T) {
		t.Parallel()

		inKey, err := signer.Sign(map[string]any{"a:b": "x"})
		require.NoError(t, err)
		inValue, err := signer.Sign(map[string]any{"a": "b:x"})
		require.NoError(t, err)

		assert.NotEqual(t, inKey, inValue)
	})

	t.Run("escaping stays deterministic", func(t *testing.T) {
		t.Parallel()

		value := map[string]any{"user.name": "line\none", "b": map[string]any{"user": map[string]any{"name": 1}}}
		a, err := signer.Sign(value)
		require.NoError(t, err)
		b, err := signer.Sign(value)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.True(t, signer.Validate(value, a))
	})
}

func TestSignUnsupportedValue(t *testing.T) {
	t.Parallel()

	_, err := signer.Sign(map[string]any{"fn": func() {}})
	// Channels and funcs cannot be reduced to the JSON data model.
	assert.Error(t, err)
}
