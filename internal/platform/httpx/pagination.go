package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-lms/atelier/internal/shared"
)

// PageRequestFromQuery builds a validated keyset page request from the
// limit, after and before query parameters. An absent limit falls back to
// the default; a present but non-positive one is rejected.
func PageRequestFromQuery(r *http.Request) (shared.PageRequest, *shared.Error) {
	q := r.URL.Query()
	limit := shared.DefaultPageLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return shared.PageRequest{}, shared.BadRequestError("limit must be an integer")
		}
		limit = n
	}
	return shared.NewPageRequest(limit, shared.Cursor(q.Get("after")), shared.Cursor(q.Get("before")))
}

// PathID parses the named chi URL parameter as a positive int64 id.
func PathID(r *http.Request, name string) (int64, *shared.Error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.BadRequestError("invalid %s", name)
	}
	return id, nil
}
