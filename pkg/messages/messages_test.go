package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/messages"
)

func TestResolveFallbackOrder(t *testing.T) {
	t.Parallel()

	table := messages.Table{
		"en": map[string]any{
			"email": map[string]any{"required": "R1"},
		},
		"email": map[string]any{"*": "R2"},
		"*":     "R3",
	}

	t.Run("exact locale field rule", func(t *testing.T) {
		t.Parallel()
		msg, ok := messages.Resolve(table, "email", "required", "en")
		require.True(t, ok)
		assert.Equal(t, "R1", msg)
	})

	t.Run("falls through to field wildcard", func(t *testing.T) {
		t.Parallel()
		msg, ok := messages.Resolve(table, "email", "other", "en")
		require.True(t, ok)
		assert.Equal(t, "R2", msg)
	})

	t.Run("global wildcard", func(t *testing.T) {
		t.Parallel()
		msg, ok := messages.Resolve(messages.Table{"*": "R3"}, "x", "y", "")
		require.True(t, ok)
		assert.Equal(t, "R3", msg)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		_, ok := messages.Resolve(messages.Table{}, "x", "y", "")
		assert.False(t, ok)
	})

	t.Run("locale wildcard beats global", func(t *testing.T) {
		t.Parallel()
		tbl := messages.Table{
			"en": map[string]any{"*": "locale-wide"},
			"*":  "global",
		}
		msg, ok := messages.Resolve(tbl, "name", "required", "en")
		require.True(t, ok)
		assert.Equal(t, "locale-wide", msg)

		msg, ok = messages.Resolve(tbl, "name", "required", "")
		require.True(t, ok)
		assert.Equal(t, "global", msg)
	})
}

func TestResolveBlankTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	table := messages.Table{
		"en": map[string]any{
			"email": map[string]any{"required": "   "},
		},
		"email": map[string]any{"required": "fallback"},
	}

	msg, ok := messages.Resolve(table, "email", "required", "en")
	require.True(t, ok)
	assert.Equal(t, "fallback", msg)
}

func TestResolveBaseLanguageFallback(t *testing.T) {
	t.Parallel()

	table := messages.Table{
		"en": map[string]any{
			"email": map[string]any{"required": "base message"},
		},
	}

	msg, ok := messages.Resolve(table, "email", "required", "en-US")
	require.True(t, ok)
	assert.Equal(t, "base message", msg)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en-US", messages.Normalize("en-us"))
	assert.Equal(t, "en", messages.Normalize("en"))
	assert.Equal(t, "not a locale", messages.Normalize("not a locale"))
	assert.Equal(t, "", messages.Normalize(""))
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	raw := []byte(`
en:
  email:
    required: "Email is required"
"*": "Invalid input"
`)

	table, err := messages.ParseYAML(raw)
	require.NoError(t, err)

	msg, ok := messages.Resolve(table, "email", "required", "en")
	require.True(t, ok)
	assert.Equal(t, "Email is required", msg)

	msg, ok = messages.Resolve(table, "other", "other", "")
	require.True(t, ok)
	assert.Equal(t, "Invalid input", msg)

	_, err = messages.ParseYAML([]byte("{invalid"))
	assert.ErrorIs(t, err, messages.ErrFailedToParseYAML)
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"en": {"email": {"required": "Required"}}}`)

	table, err := messages.ParseJSON(raw)
	require.NoError(t, err)

	msg, ok := messages.Resolve(table, "email", "required", "en")
	require.True(t, ok)
	assert.Equal(t, "Required", msg)

	_, err = messages.ParseJSON([]byte("not json"))
	assert.ErrorIs(t, err, messages.ErrFailedToParseJSON)
}
