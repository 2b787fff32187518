package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "concierge/pkg/errors"
	"concierge/pkg/logger"
	"concierge/pkg/model"
	"concierge/pkg/token"

	"github.com/julienschmidt/httprouter"
)

type TokenParser interface {
	Parse(raw string) (*model.Identity, error)
}

// RequireAuth resolves the bearer token into a model.Identity stored on the
// request context. Missing or invalid tokens are answered with 401.
func RequireAuth(parser TokenParser, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				reject(w, log, "RequireAuth", apperrors.Unauthorized("Authentication required"))
				return
			}

			identity, err := parser.Parse(raw)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, token.ErrExpiredToken) {
					message = "Token expired"
				}
				log.Debug("Bearer token rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				reject(w, log, "RequireAuth", apperrors.Unauthorized(message))
				return
			}

			next(w, r.WithContext(WithIdentity(r.Context(), identity)), ps)
		}
	}
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}

func bearerToken(header string) string {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}
