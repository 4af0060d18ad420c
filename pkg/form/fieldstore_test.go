package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
)

func TestFieldStoreRegistration(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()
	s.SetField("email", form.Field{Initial: "", Value: ""})

	field, ok := s.Snapshot("email")
	require.True(t, ok)
	assert.NotEmpty(t, field.ID, "missing IDs are minted at registration")
	assert.False(t, field.Touched)

	_, ok = s.Snapshot("missing")
	assert.False(t, ok)
}

func TestFieldStoreTouchedMonotonicity(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()
	s.SetField("name", form.Field{Value: "initial", Initial: "initial"})

	s.SetValue("name", "initial")
	field, _ := s.Snapshot("name")
	assert.False(t, field.Touched, "same value does not touch")

	s.SetValue("name", "changed")
	field, _ = s.Snapshot("name")
	assert.True(t, field.Touched)

	s.SetValue("name", "changed")
	field, _ = s.Snapshot("name")
	assert.True(t, field.Touched, "touched never reverts on its own")

	s.ResetField("name")
	field, _ = s.Snapshot("name")
	assert.False(t, field.Touched)
	assert.Equal(t, "initial", field.Value, "reset without value restores Initial")
}

func TestFieldStoreResetFieldWithValue(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()
	s.SetField("age", form.Field{Value: 30, Initial: 0})
	s.SetValue("age", 31)

	s.ResetField("age", 18)
	field, _ := s.Snapshot("age")
	assert.Equal(t, 18, field.Value)
	assert.False(t, field.Touched)
}

func TestFieldStoreBulkResetSingleWave(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()
	s.SetField("a", form.Field{Initial: "a0"})
	s.SetField("b", form.Field{Initial: "b0"})

	var aHits, bHits int
	s.Subscribe("a", func() { aHits++ })
	s.Subscribe("b", func() { bHits++ })

	s.Reset(map[string]any{"a": "a1", "b": "b1"})

	// One notify-all wave, not one notification per field per listener.
	assert.Equal(t, 1, aHits)
	assert.Equal(t, 1, bHits)

	a, _ := s.Snapshot("a")
	b, _ := s.Snapshot("b")
	assert.Equal(t, "a1", a.Value)
	assert.Equal(t, "b1", b.Value)
}

func TestFieldStoreSetValueUnregistered(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()

	var hits int
	s.Subscribe("ghost", func() { hits++ })

	// No-op on state, but the notification still fires.
	s.SetValue("ghost", "boo")
	assert.Equal(t, 1, hits)

	_, ok := s.Snapshot("ghost")
	assert.False(t, ok)
}

func TestFieldStoreSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	s := form.NewFieldStore()
	s.SetField("email", form.Field{Value: "a@b.c"})

	field, _ := s.Snapshot("email")
	field.Value = "mutated"

	fresh, _ := s.Snapshot("email")
	assert.Equal(t, "a@b.c", fresh.Value)
}
