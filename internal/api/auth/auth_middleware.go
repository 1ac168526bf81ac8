package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appMiddleware "github.com/FACorreiaa/go-travel-recommendations/app/middleware"
	"github.com/FACorreiaa/go-travel-recommendations/internal/api"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

type contextKey string

const IdentityKey contextKey = "identity"

// TokenVerifier turns a raw bearer token into a caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*types.Identity, error)
}

// Authenticate rejects requests without a valid ID token and stores the
// verified identity in the request context.
func Authenticate(logger *slog.Logger, verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			raw, ok := appMiddleware.BearerToken(r)
			if !ok {
				l.WarnContext(ctx, "Missing or malformed Authorization header")
				api.AuthErrorResponse(w, r, http.StatusUnauthorized, api.AuthCodeArgument, "Authentication token is required")
				return
			}

			identity, err := verifier.Verify(ctx, raw)
			if err != nil {
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				switch {
				case errors.Is(err, types.ErrMissingToken):
					api.AuthErrorResponse(w, r, http.StatusUnauthorized, api.AuthCodeArgument, "Malformed authentication token")
				case errors.Is(err, types.ErrTokenExpired):
					api.AuthErrorResponse(w, r, http.StatusForbidden, api.AuthCodeExpired, "Authentication token has expired")
				case errors.Is(err, types.ErrUpstream):
					api.ErrorResponse(w, r, http.StatusBadGateway, "Unable to verify authentication token")
				default:
					api.AuthErrorResponse(w, r, http.StatusForbidden, api.AuthCodeInvalid, "Invalid authentication token")
				}
				return
			}

			ctx = WithIdentity(ctx, identity)
			l.DebugContext(ctx, "Authentication successful", slog.String("uid", identity.UID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity *types.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentityFromContext(ctx context.Context) (*types.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*types.Identity)
	return identity, ok && identity != nil
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return identity.UID, identity.UID != ""
}
