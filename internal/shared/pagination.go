package shared

import (
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListRange is an offset/limit window for paginated listings.
type ListRange struct {
	Skip  int
	Limit int
}

// RangeFromQuery reads skip/limit query parameters, clamping them to sane bounds.
func RangeFromQuery(values url.Values) ListRange {
	skip, _ := strconv.Atoi(values.Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(values.Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return ListRange{Skip: skip, Limit: limit}
}
