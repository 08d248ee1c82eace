package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HeaderUserID carries the caller's identity on every scoped endpoint.
const HeaderUserID = "X-Sharer-User-Id"

// callerID extracts the caller identity header. A missing or malformed
// header is a client error, not a server one.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", HeaderUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// pagination parses from/size query parameters with defaults 0 and
// defaultSize.
func pagination(r *http.Request, defaultSize int) (from, size int, err error) {
	from, err = queryInt(r, "from", 0)
	if err != nil || from < 0 {
		return 0, 0, fmt.Errorf("from must be a non-negative integer")
	}
	size, err = queryInt(r, "size", defaultSize)
	if err != nil || size <= 0 {
		return 0, 0, fmt.Errorf("size must be a positive integer")
	}
	return from, size, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
