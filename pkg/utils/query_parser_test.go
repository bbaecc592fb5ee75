package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.True(t, f.WithPagination)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Sort)
	assert.Empty(t, f.Filter)
}

func TestParseFilterFromQueryFull(t *testing.T) {
	query := url.Values{
		"search":         {"report"},
		"sort[name]":     {"desc"},
		"filter[role]":   {"customer"},
		"filter[active]": {"true"},
		"limit":          {"50"},
		"offset":         {"100"},
	}

	f := ParseFilterFromQuery(query)

	assert.Equal(t, "report", f.Search)
	assert.Equal(t, map[string]string{"name": "desc"}, f.Sort)
	assert.Equal(t, "customer", f.Filter["role"])
	assert.Equal(t, "true", f.Filter["active"])
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 100, f.Offset)
}

func TestParseFilterFromQuerySortDirectionNormalized(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"sort[created_at]": {"DESC"}})
	assert.Equal(t, "desc", f.Sort["created_at"])

	f = ParseFilterFromQuery(url.Values{"sort[created_at]": {"sideways"}})
	assert.Equal(t, "asc", f.Sort["created_at"])
}

func TestParseFilterFromQueryLimitBounds(t *testing.T) {
	// Out-of-range values fall back to the default.
	f := ParseFilterFromQuery(url.Values{"limit": {"0"}})
	assert.Equal(t, 20, f.Limit)

	f = ParseFilterFromQuery(url.Values{"limit": {"1000"}})
	assert.Equal(t, 20, f.Limit)

	f = ParseFilterFromQuery(url.Values{"limit": {"not-a-number"}})
	assert.Equal(t, 20, f.Limit)

	f = ParseFilterFromQuery(url.Values{"offset": {"-5"}})
	assert.Equal(t, 0, f.Offset)
}

func TestParseFilterFromQueryPage(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"page": {"3"}, "limit": {"10"}})
	assert.Equal(t, 20, f.Offset)

	// An explicit offset wins over page.
	f = ParseFilterFromQuery(url.Values{"page": {"3"}, "offset": {"5"}})
	assert.Equal(t, 5, f.Offset)
}
