package api

import (
	"errors"
	"net/http"
)

// HandleNotFound answers every unmatched request the way Express does:
// 404 {"error":"Not found","message":"Cannot GET /x"}.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	const op = "api.not_found"
	writeError(w, http.StatusNotFound, "Not found",
		WrapKind(op, ErrNotFound, errors.New("Cannot "+r.Method+" "+r.URL.Path)))
}
