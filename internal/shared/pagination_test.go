package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeFromQueryDefaults(t *testing.T) {
	window := RangeFromQuery(url.Values{})
	assert.Equal(t, 0, window.Skip)
	assert.Equal(t, 10, window.Limit)
}

func TestRangeFromQueryClamping(t *testing.T) {
	cases := []struct {
		name      string
		skip      string
		limit     string
		wantSkip  int
		wantLimit int
	}{
		{"explicit", "20", "50", 20, 50},
		{"negative skip", "-5", "10", 0, 10},
		{"zero limit", "0", "0", 0, 10},
		{"limit capped", "0", "5000", 0, 100},
		{"garbage", "abc", "xyz", 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{}
			values.Set("skip", tc.skip)
			values.Set("limit", tc.limit)
			window := RangeFromQuery(values)
			assert.Equal(t, tc.wantSkip, window.Skip)
			assert.Equal(t, tc.wantLimit, window.Limit)
		})
	}
}
