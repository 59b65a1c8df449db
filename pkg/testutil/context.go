package testutil

import (
	"net/http"
	"time"

	"fred/pkg/requestcontext"
)

// WithRequestTime pins the request time, as the requesttime middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
