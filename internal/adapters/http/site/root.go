// Package site handles requests that match no other route.
package site

import (
	"context"
	"encoding/json"
	"net/http"
)

// DocsPath is where the root path redirects.
const DocsPath = "/docs"

// Register attaches the catch-all root handler to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	target string
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{target: DocsPath}
}

// HandleRoot redirects GET / to the API documentation. Any other path
// reaching the catch-all is answered with a JSON 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
		return
	}
	http.Redirect(w, r, h.target, http.StatusFound)
}
