// Package requesttime fixes one "now" per HTTP request, so every query of
// a request that defaults a history limit to the present uses the same instant.
package requesttime

import (
	"net/http"
	"time"

	"fred/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
