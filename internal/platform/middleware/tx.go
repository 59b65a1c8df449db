package middleware

import (
	"context"
	"log/slog"
	"net/http"

	dErrors "fred/pkg/domain-errors"
	"fred/pkg/platform/httputil"
	"fred/pkg/requestcontext"
)

// TxRunner opens a read-only transaction around fn.
type TxRunner interface {
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyTx serves each request inside one read-only snapshot transaction,
// so every query of the request sees the same registry state.
func ReadOnlyTx(runner TxRunner, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			served := false
			err := runner.RunReadOnly(r.Context(), func(ctx context.Context) error {
				served = true
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if err == nil {
				return
			}
			ctx := r.Context()
			logger.ErrorContext(ctx, "read-only transaction failed",
				"error", err,
				"served", served,
				"request_id", requestcontext.RequestID(ctx),
			)
			if !served {
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeOf(err), "registry database unavailable"))
			}
		})
	}
}
