package lister_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/lister"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("round trip scenario", func(t *testing.T) {
		t.Parallel()

		encoded := lister.Encode(lister.Params{
			Page:    2,
			Limit:   10,
			Search:  "",
			Sorts:   []lister.Sort{{Field: "name", Order: lister.OrderAsc}},
			Filters: map[string]any{"status": "active"},
		})

		values, err := url.ParseQuery(encoded)
		require.NoError(t, err)
		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "10", values.Get("limit"))
		assert.Equal(t, "name:asc", values.Get("sorts"))
		assert.Equal(t, "active", values.Get("status"))
		assert.NotContains(t, values, "search", "empty search is omitted")

		decoded := lister.Decode(encoded)
		assert.Equal(t, 2, decoded.Page)
		assert.Equal(t, 10, decoded.Limit)
		assert.Equal(t, "", decoded.Search)
		assert.Equal(t, []lister.Sort{{Field: "name", Order: lister.OrderAsc}}, decoded.Sorts)
		assert.Equal(t, map[string]any{"status": "active"}, decoded.Filters)
	})

	t.Run("empty values omitted", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", lister.Encode(lister.Params{}))
	})

	t.Run("array filter", func(t *testing.T) {
		t.Parallel()
		encoded := lister.Encode(lister.Params{
			Filters: map[string]any{"ids": []any{1, 2, 3}},
		})
		assert.Equal(t, "ids="+url.QueryEscape("1,2,3"), encoded)
	})

	t.Run("object filter sorted by key", func(t *testing.T) {
		t.Parallel()
		encoded := lister.Encode(lister.Params{
			Filters: map[string]any{"range": map[string]any{"min": 1, "max": 9}},
		})
		assert.Equal(t, "range="+url.QueryEscape("max:9,min:1"), encoded)
	})

	t.Run("nested filter skipped", func(t *testing.T) {
		t.Parallel()
		encoded := lister.Encode(lister.Params{
			Filters: map[string]any{
				"bad":  map[string]any{"nested": map[string]any{"deep": 1}},
				"good": "ok",
			},
		})
		assert.Equal(t, "good=ok", encoded)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("malformed sorts dropped", func(t *testing.T) {
		t.Parallel()
		p := lister.Decode("sorts=" + url.QueryEscape("name:asc,broken,age:sideways,ok:desc"))
		assert.Equal(t, []lister.Sort{
			{Field: "name", Order: lister.OrderAsc},
			{Field: "ok", Order: lister.OrderDesc},
		}, p.Sorts)
	})

	t.Run("non-positive page ignored", func(t *testing.T) {
		t.Parallel()
		p := lister.Decode("page=0&limit=-5")
		assert.Zero(t, p.Page)
		assert.Zero(t, p.Limit)
	})

	t.Run("filter type inference", func(t *testing.T) {
		t.Parallel()
		p := lister.Decode("active=true&count=42&ratio=1.5&label=plain&missing=" + url.QueryEscape("[null]"))
		assert.Equal(t, true, p.Filters["active"])
		assert.Equal(t, 42, p.Filters["count"])
		assert.Equal(t, 1.5, p.Filters["ratio"])
		assert.Equal(t, "plain", p.Filters["label"])
		assert.Nil(t, p.Filters["missing"])
	})

	t.Run("comma makes array", func(t *testing.T) {
		t.Parallel()
		p := lister.Decode("ids=" + url.QueryEscape("1,2,true"))
		assert.Equal(t, []any{1, 2, true}, p.Filters["ids"])
	})

	t.Run("colon makes object", func(t *testing.T) {
		t.Parallel()
		p := lister.Decode("range=" + url.QueryEscape("min:1,max:9"))
		assert.Equal(t, map[string]any{"min": 1, "max": 9}, p.Filters["range"])
	})

	t.Run("empty and garbage input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, lister.Params{}, lister.Decode(""))
		p := lister.Decode("?page=3")
		assert.Equal(t, 3, p.Page, "leading question mark tolerated")
	})
}
