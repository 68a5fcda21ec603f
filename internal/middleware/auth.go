// internal/middleware/auth.go
package middleware

import (
    "context"
    "encoding/json"
    "net/http"
    "strings"

    "github.com/franquimap/crm-backend/internal/repository"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// RequireAuth validates the bearer token against the sessions table.
// Missing or invalid tokens get a 401.
func RequireAuth(sessions repository.SessionRepositoryInterface) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            token := bearerToken(r)
            if token == "" {
                unauthorized(w, "missing bearer token")
                return
            }

            session, err := sessions.GetByToken(token)
            if err != nil {
                unauthorized(w, "could not validate token")
                return
            }
            if session == nil {
                unauthorized(w, "invalid or expired token")
                return
            }

            ctx := context.WithValue(r.Context(), UserIDKey, session.UserID)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// RequireDispatchToken guards the internal endpoints the dispatcher calls.
func RequireDispatchToken(token string) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if token == "" || bearerToken(r) != token {
                unauthorized(w, "invalid dispatch token")
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}

func bearerToken(r *http.Request) string {
    header := r.Header.Get("Authorization")
    if !strings.HasPrefix(header, "Bearer ") {
        return ""
    }
    return strings.TrimPrefix(header, "Bearer ")
}

func unauthorized(w http.ResponseWriter, msg string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusUnauthorized)
    json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
