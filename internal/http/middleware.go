package http

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// HeaderAuthMiddleware trusts the X-User-ID header. Real session or
// token validation lives outside this repo; the data layer only needs
// an owner identity.
func HeaderAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
