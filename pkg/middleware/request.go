package middleware

import (
	"context"
	"net/http"

	apperrors "concierge/pkg/errors"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"
)

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Chain applies middlewares so the first one listed is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func reject(w http.ResponseWriter, log *logger.Logger, middleware string, err *apperrors.AppError) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "middleware", middleware, "operation", "WriteError", "error", writeErr)
	}
}
