package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventFilter_defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "http://test/events/", nil)

	filter, err := ParseEventFilter(r)
	require.NoError(t, err)
	assert.Equal(t, 0, filter.Skip)
	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Empty(t, filter.Title)
	assert.Nil(t, filter.From)
	assert.Nil(t, filter.To)
}

func TestParseEventFilter_values(t *testing.T) {
	r := httptest.NewRequest("GET", "http://test/events/?skip=20&limit=5&title=launch&from_date=2026-01-01T00:00:00&to_date=2026-12-31", nil)

	filter, err := ParseEventFilter(r)
	require.NoError(t, err)
	assert.Equal(t, 20, filter.Skip)
	assert.Equal(t, 5, filter.Limit)
	assert.Equal(t, "launch", filter.Title)
	require.NotNil(t, filter.From)
	assert.Equal(t, "2026-01-01T00:00:00", filter.From.Format("2006-01-02T15:04:05"))
	require.NotNil(t, filter.To)
	assert.Equal(t, "2026-12-31T00:00:00", filter.To.Format("2006-01-02T15:04:05"))
}

func TestParseEventFilter_clamps_and_ignores_garbage(t *testing.T) {
	r := httptest.NewRequest("GET", "http://test/events/?skip=-3&limit=5000", nil)

	filter, err := ParseEventFilter(r)
	require.NoError(t, err)
	assert.Equal(t, 0, filter.Skip)
	assert.Equal(t, MaxLimit, filter.Limit)

	r = httptest.NewRequest("GET", "http://test/events/?skip=abc&limit=xyz", nil)
	filter, err = ParseEventFilter(r)
	require.NoError(t, err)
	assert.Equal(t, 0, filter.Skip)
	assert.Equal(t, DefaultLimit, filter.Limit)
}

func TestParseEventFilter_bad_dates(t *testing.T) {
	for _, query := range []string{"from_date=yesterday", "to_date=not-a-date"} {
		r := httptest.NewRequest("GET", "http://test/events/?"+query, nil)
		_, err := ParseEventFilter(r)
		require.Error(t, err, query)
	}
}
