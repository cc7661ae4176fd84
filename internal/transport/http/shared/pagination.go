package shared

import (
	"net/http"
	"strconv"
)

// Pagination is a parsed limit/offset pair for list endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset query parameters. Malformed or
// out-of-range values fall back silently rather than failing the request;
// the limit is clamped to maxLimit when one is set.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	page := Pagination{
		Limit:  queryInt(q.Get("limit"), defaultLimit, 1),
		Offset: queryInt(q.Get("offset"), 0, 0),
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func queryInt(raw string, fallback, floor int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < floor {
		return fallback
	}
	return v
}
