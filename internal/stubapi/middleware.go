package stubapi

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUserID contextKey = "user_id"

// authContext attaches the token's user ID to the request context when
// a valid bearer token is present. It never rejects: public endpoints
// (auth, products) need no token, and protected handlers check the
// context themselves.
func (s *Server) authContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := s.tokens.VerifyAccessToken(parts[1]); err == nil {
				ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// authedUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func authedUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// effectiveUserID picks the list owner for a request: the explicit
// userId query parameter when given, otherwise the token's user.
// Existing storefront clients pass userId explicitly; the token alone
// is enough for newer ones.
func effectiveUserID(ctx context.Context, queryUserID string) string {
	if queryUserID != "" {
		return queryUserID
	}
	return authedUserID(ctx)
}
