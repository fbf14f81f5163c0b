package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tiendalabs/tienda/internal/domain"
)

type contextKey string

const (
	// UserContextKey is the context key for storing the authenticated user
	UserContextKey contextKey = "user"

	// CartSessionContextKey is the context key for the anonymous cart session ID
	CartSessionContextKey contextKey = "cart_session"

	// SessionCookieName carries the login session token
	SessionCookieName = "tienda_session"

	// CartCookieName identifies the (possibly anonymous) cart session
	CartCookieName = "tienda_cart"
)

// WithCartSession guarantees every request has a cart session ID, minting a
// cookie on first contact so anonymous visitors can build a cart.
func WithCartSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(CartCookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(180 * 24 * time.Hour),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), CartSessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCartSession retrieves the cart session ID from the context.
func GetCartSession(ctx context.Context) string {
	if id, ok := ctx.Value(CartSessionContextKey).(string); ok {
		return id
	}
	return ""
}

// WithUser resolves the session cookie to a user and adds it to the request
// context. It never rejects the request; anonymous browsing stays possible.
func WithUser(users domain.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserBySessionToken(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with a JSON 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Authentication required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the authenticated user, or nil.
func GetUserFromContext(ctx context.Context) *domain.User {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the authenticated user's ID, or 0 for anonymous requests.
func GetUserID(ctx context.Context) int64 {
	if user := GetUserFromContext(ctx); user != nil {
		return user.ID
	}
	return 0
}
