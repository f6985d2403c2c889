package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/utils"
)

type claimsKey struct{}

// TokenParser verifies member tokens.
type TokenParser interface {
	Parse(token string) (auth.Claims, error)
}

// RequireToken rejects requests without a valid member token. The token is
// read from the Authorization header, or from ?token= for image tags.
func RequireToken(tokens TokenParser, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			utils.Logger().Sugar().Debugf("AUTH DENIED: missing token from %s", r.RemoteAddr)
			http.Error(w, "Unauthorized: token required", http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			utils.Logger().Sugar().Infof("AUTH DENIED: %v (RemoteAddr: %s)", err, r.RemoteAddr)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// ClaimsFrom returns the claims RequireToken attached to ctx.
func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
