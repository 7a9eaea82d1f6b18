package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// UserContextKey is where the resolved identity is stashed for handlers.
const UserContextKey = "user"

// Auth validates the bearer token and resolves its subject to a stored user,
// which is injected into the request context. Tokens carry only the subject
// id; the role is always read fresh from the credential store. Rejections
// surface as ErrUnauthenticated and are mapped centrally.
func Auth(jwtSecret string, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return reject("no token")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return reject("invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return reject("invalid or expired token")
			}

			subject, _ := claims["id"].(string)
			if subject == "" {
				return reject("invalid token subject")
			}

			user, err := users.FindByID(c.Request().Context(), subject)
			if err != nil {
				return reject("unknown account")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

func reject(detail string) error {
	metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
	return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, detail)
}
