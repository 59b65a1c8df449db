package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern is the matched chi route, so metrics are not labelled with
// object handles.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
