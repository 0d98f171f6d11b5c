// Package middleware holds the HTTP middleware shared by every route:
// bearer-token role checks and request logging.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aanand-mishra/alumni-api/internal/utils/response"
)

// Roles carried in the token's role claim.
const (
	RoleAdmin   = "admin"
	RoleAlumni  = "alumni"
	RoleStudent = "student"
)

// Claims is the payload of an access token. Tokens are issued by the
// authentication service; this package only verifies them.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by Authorizer.Require.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// Authorizer verifies HS256 bearer tokens signed with a shared secret.
type Authorizer struct {
	signingKey []byte
}

// NewAuthorizer returns an Authorizer for secret.
func NewAuthorizer(secret string) *Authorizer {
	return &Authorizer{signingKey: []byte(secret)}
}

// ValidateToken parses and verifies tokenString.
func (a *Authorizer) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Require admits requests whose token carries one of roles.
// Responds 401 without a valid token and 403 for any other role.
func (a *Authorizer) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(errors.New("missing bearer token")))
				return
			}

			claims, err := a.ValidateToken(token)
			if err != nil {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
				return
			}

			if !slices.Contains(roles, claims.Role) {
				slog.Warn("forbidden", slog.String("role", claims.Role), slog.String("path", r.URL.Path))
				response.WriteJSON(w, http.StatusForbidden,
					response.GeneralError(errors.New("forbidden")))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
