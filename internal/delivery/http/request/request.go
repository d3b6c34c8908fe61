package request

import (
	"errors"
	"net/http"
	"strconv"
)

var ErrInvalidLimit = errors.New("limit must be a positive integer")

// ListPagesRequest holds the query parameters of GET /api/pages.
type ListPagesRequest struct {
	Limit int
}

// ParseListPages reads ?limit=N. A missing limit is zero.
func ParseListPages(r *http.Request) (ListPagesRequest, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return ListPagesRequest{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return ListPagesRequest{}, ErrInvalidLimit
	}
	return ListPagesRequest{Limit: n}, nil
}
