package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/divvyhq/divvy/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the acting user ID
	UserIDKey ContextKey = "user_id"
)

// ActorMiddleware resolves the acting user from the X-User-ID header.
// The identity provider sits in front of this service; by the time a
// request arrives here the header carries a verified user ID.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			response.Unauthorized(w, "X-User-ID header required")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			response.Unauthorized(w, "Invalid user ID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the acting user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
