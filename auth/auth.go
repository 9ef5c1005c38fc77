package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/auth"
)

// UserCtxKey is the context key the middleware stores the verified token
// under. Exported so tests can build authenticated contexts.
var UserCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// Middleware verifies the bearer ID token and packs it into the request
// context. Requests without a token pass through unauthenticated; handlers
// decide whether to reject them.
func Middleware(client *auth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token *auth.Token
			t := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(t) == 2 && t[0] == "Bearer" {
				var err error
				token, err = client.VerifyIDToken(r.Context(), t[1])
				if err != nil {
					http.Error(w, "Invalid token", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ForContext finds the user from the context. REQUIRES Middleware to have run.
func ForContext(ctx context.Context) *auth.Token {
	raw, _ := ctx.Value(UserCtxKey).(*auth.Token)
	return raw
}

// Name extracts a display name from the token claims, falling back to the
// email address.
func Name(token *auth.Token) string {
	if token == nil {
		return ""
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		return name
	}
	if email, ok := token.Claims["email"].(string); ok {
		return email
	}
	return ""
}

// Email extracts the email claim.
func Email(token *auth.Token) string {
	if token == nil {
		return ""
	}
	email, _ := token.Claims["email"].(string)
	return email
}
