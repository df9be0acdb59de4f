package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"eventgallery/internal/domain"
)

// Listing query parameter defaults and limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseEventFilter reads skip, limit, title, from, and to from the request
// query string. Invalid or missing skip and limit values fall back to
// defaults; limit is clamped to MaxLimit. An unparsable from or to date is an
// error the caller should surface as a 400.
func ParseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()

	filter := domain.EventFilter{Limit: DefaultLimit}
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			filter.Skip = v
		}
	}
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			filter.Limit = v
			if filter.Limit > MaxLimit {
				filter.Limit = MaxLimit
			}
		}
	}
	filter.Title = q.Get("title")
	if s := q.Get("from_date"); s != "" {
		lt, err := domain.ParseLocalTime(s)
		if err != nil {
			return domain.EventFilter{}, fmt.Errorf("invalid from_date %q", s)
		}
		filter.From = &lt
	}
	if s := q.Get("to_date"); s != "" {
		lt, err := domain.ParseLocalTime(s)
		if err != nil {
			return domain.EventFilter{}, fmt.Errorf("invalid to_date %q", s)
		}
		filter.To = &lt
	}
	return filter, nil
}
