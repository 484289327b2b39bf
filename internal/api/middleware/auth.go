package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/voltcast-alerts/internal/auth"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// SubjectKey is the context key for the token subject
	SubjectKey ContextKey = "subject"
)

// AuthMiddleware returns a middleware that requires a valid bearer token
// signed with jwtSecret. An empty secret disables the check.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if jwtSecret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, jwtSecret)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			AddLogField(w, "subject", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetSubject extracts the authenticated subject from the request context
func GetSubject(r *http.Request) (string, bool) {
	subject, ok := r.Context().Value(SubjectKey).(string)
	return subject, ok
}
