package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"healthwatch/internal/apperr"
	"healthwatch/internal/httpx"
	"healthwatch/internal/models"
)

type contextKey struct{}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok && user != nil
}

// JWTMiddleware verifies the identity provider's bearer token and attaches
// the caller's stored user to the request context.
func JWTMiddleware(jwtSecret string, service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			id, err := parseIdentity(r.Header.Get("Authorization"), jwtSecret)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}

			user, err := service.Resolve(r.Context(), id)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func parseIdentity(authHeader, jwtSecret string) (Identity, error) {
	if authHeader == "" {
		return Identity{}, apperr.Unauthorized("authorization header required")
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
		return Identity{}, apperr.Unauthorized("invalid token format")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Unauthorized("invalid token")
	}

	return Identity{
		Subject:   claimString(claims, "sub"),
		Email:     claimString(claims, "email"),
		FirstName: claimString(claims, "first_name"),
		LastName:  claimString(claims, "last_name"),
		Role:      claimString(claims, "role"),
		Region:    claimString(claims, "region"),
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// RequireRole rejects callers whose stored role is not one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httpx.Error(w, r, apperr.Unauthorized("authentication required"))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, r, apperr.Forbidden("%s access required", strings.Join(roles, " or ")))
		})
	}
}
