package handler

import (
	"context"
	"net/http"
	"strings"
	"studygroup-api/common"
	"studygroup-api/logger"
	"studygroup-api/model"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenAuthenticator resolves access tokens. *service.TokenService implements it.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Identity, error)
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFrom(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}

// bearerToken returns the token of a "Bearer <token>" Authorization header,
// or "" when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return ""
	}
	return headerParts[1]
}

// AuthMiddleware attaches the caller's identity when the request carries a
// valid access token. It never rejects a request; RequireIdentity does.
func AuthMiddleware(tokens TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := tokens.Authenticate(r.Context(), token)
			if err != nil {
				logger.Log.WithError(err).Debug("Proceeding unauthenticated")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireIdentity rejects requests the gateway could not authenticate.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
