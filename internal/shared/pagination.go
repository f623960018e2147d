package shared

import (
	"encoding/base64"
	"strconv"
)

// Pagination limits. A request above MaxPageLimit is capped, a non-positive
// limit is rejected.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Cursor is an opaque boundary marker over a listing's ordering key. Only the
// pagination engine produces cursors; callers pass them back verbatim.
type Cursor string

// EncodeCursor builds the cursor for an ordering-key value.
func EncodeCursor(key int64) Cursor {
	return Cursor(base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(key, 10))))
}

// DecodeCursor recovers the ordering-key value from a cursor.
// decode(encode(k)) == k for every valid key.
func DecodeCursor(c Cursor) (int64, *Error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return 0, BadRequestError("malformed cursor")
	}
	key, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, BadRequestError("malformed cursor")
	}
	return key, nil
}

// PageRequest is a validated keyset page specification. At most one of After
// and Before is set.
type PageRequest struct {
	Limit  int
	After  *int64
	Before *int64
}

// NewPageRequest validates raw pagination inputs before any query runs.
// Cursor strings are empty when the caller supplied none.
func NewPageRequest(limit int, after, before Cursor) (PageRequest, *Error) {
	if limit <= 0 {
		return PageRequest{}, BadRequestError("limit must be positive")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if after != "" && before != "" {
		return PageRequest{}, BadRequestError("afterCursor and beforeCursor are mutually exclusive")
	}
	req := PageRequest{Limit: limit}
	if after != "" {
		key, err := DecodeCursor(after)
		if err != nil {
			return PageRequest{}, err
		}
		req.After = &key
	}
	if before != "" {
		key, err := DecodeCursor(before)
		if err != nil {
			return PageRequest{}, err
		}
		req.Before = &key
	}
	return req, nil
}

// Backward reports whether the request pages toward smaller keys.
func (r PageRequest) Backward() bool {
	return r.Before != nil
}

// Boundary returns the decoded cursor key, if any.
func (r PageRequest) Boundary() (int64, bool) {
	if r.After != nil {
		return *r.After, true
	}
	if r.Before != nil {
		return *r.Before, true
	}
	return 0, false
}

// FetchLimit is how many rows a repository must fetch: one beyond the page
// size to detect whether another page exists.
func (r PageRequest) FetchLimit() int {
	return r.Limit + 1
}

// PageCursors carries the boundary markers of a page. A nil cursor means no
// rows exist in that direction.
type PageCursors struct {
	Before *Cursor `json:"beforeCursor,omitempty"`
	After  *Cursor `json:"afterCursor,omitempty"`
}

// Page is one bounded, ascending slice of a listing.
type Page[T any] struct {
	Items   []T         `json:"items"`
	Cursors PageCursors `json:"cursor"`
}

// BuildPage assembles a page from rows fetched with FetchLimit in query
// order: ascending for forward requests, descending for backward ones. key
// extracts the ordering-key value of a row.
func BuildPage[T any](rows []T, req PageRequest, key func(T) int64) Page[T] {
	hasMore := len(rows) > req.Limit
	if hasMore {
		rows = rows[:req.Limit]
	}
	if req.Backward() {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	page := Page[T]{Items: rows}
	if len(rows) == 0 {
		return page
	}
	first := key(rows[0])
	last := key(rows[len(rows)-1])
	if req.Backward() {
		if hasMore {
			c := EncodeCursor(first)
			page.Cursors.Before = &c
		}
		c := EncodeCursor(last)
		page.Cursors.After = &c
		return page
	}
	if req.After != nil {
		c := EncodeCursor(first)
		page.Cursors.Before = &c
	}
	if hasMore {
		c := EncodeCursor(last)
		page.Cursors.After = &c
	}
	return page
}
