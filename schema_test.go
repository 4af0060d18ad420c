package formkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestRuleSchemaValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("all failures reported together", func(t *testing.T) {
		t.Parallel()

		schema := formkit.NewRuleSchema(nil).
			Field("email", formkit.Rule("required"), formkit.Rule("email")).
			Field("age", formkit.Rule("min", 18))

		_, err := schema.Validate(ctx, map[string]any{"email": "", "age": 12})
		issues, ok := formkit.AsIssues(err)
		require.True(t, ok)
		assert.Equal(t, []string{"required", "email"}, issues.RulesFor("email"))
		assert.Equal(t, []string{"min"}, issues.RulesFor("age"))
	})

	t.Run("nested paths", func(t *testing.T) {
		t.Parallel()

		schema := formkit.NewRuleSchema(nil).
			Field("address.city", formkit.Rule("required"))

		_, err := schema.Validate(ctx, map[string]any{
			"address": map[string]any{"city": ""},
		})
		issues, ok := formkit.AsIssues(err)
		require.True(t, ok)
		assert.True(t, issues.Has("address.city"))

		out, err := schema.Validate(ctx, map[string]any{
			"address": map[string]any{"city": "Lisbon"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"address": map[string]any{"city": "Lisbon"}}, out)
	})

	t.Run("unknown keys stripped from map input", func(t *testing.T) {
		t.Parallel()

		schema := formkit.NewRuleSchema(nil).
			Field("name", formkit.Rule("required"))

		out, err := schema.Validate(ctx, map[string]any{"name": "x", "extra": true})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "x"}, out)
	})

	t.Run("unregistered rule fails closed", func(t *testing.T) {
		t.Parallel()

		schema := formkit.NewRuleSchema(formkit.NewRules()).
			Field("name", formkit.Rule("no-such-rule"))

		_, err := schema.Validate(ctx, map[string]any{"name": "x"})
		issues, ok := formkit.AsIssues(err)
		require.True(t, ok)
		assert.Equal(t, []string{"no-such-rule"}, issues.RulesFor("name"))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		schema := formkit.NewRuleSchema(nil).Field("name", formkit.Rule("required"))

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := schema.Validate(canceled, map[string]any{"name": ""})
		assert.ErrorIs(t, err, context.Canceled)
		_, ok := formkit.AsIssues(err)
		assert.False(t, ok, "cancellation reports no issues")
	})
}

func TestValueSchemaValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	schema := formkit.NewValueSchema(nil,
		formkit.Rule("required"),
		formkit.Rule("min", 3),
	)

	out, err := schema.Validate(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = schema.Validate(ctx, "")
	issues, ok := formkit.AsIssues(err)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Empty(t, issues[0].Path, "failures land on the empty path")
	assert.Equal(t, []string{"required", "min"}, issues[0].Rules)
}

func TestGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	group := formkit.Group(map[string]formkit.Schema{
		"email": formkit.NewValueSchema(nil, formkit.Rule("required"), formkit.Rule("email")),
		"bio":   nil,
		"age":   formkit.NewValueSchema(nil, formkit.Rule("min", 18)),
	})

	t.Run("merged prefixed failures", func(t *testing.T) {
		t.Parallel()

		_, err := group.Validate(ctx, map[string]any{"email": "nope", "age": 12, "bio": "free-form"})
		issues, ok := formkit.AsIssues(err)
		require.True(t, ok)
		assert.Equal(t, []string{"email"}, issues.RulesFor("email"))
		assert.Equal(t, []string{"min"}, issues.RulesFor("age"))
		assert.False(t, issues.Has("bio"), "nil schema never fails")
	})

	t.Run("validated map on success", func(t *testing.T) {
		t.Parallel()

		out, err := group.Validate(ctx, map[string]any{
			"email": "user@example.com",
			"age":   30,
			"bio":   "free-form",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"email": "user@example.com",
			"age":   30,
			"bio":   "free-form",
		}, out)
	})
}
