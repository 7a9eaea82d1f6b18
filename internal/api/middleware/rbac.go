package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// RequireRole enforces an exact role match on the resolved identity.
// There is no hierarchy: a super-admin token is rejected on admin-only
// routes just as an admin token is rejected on super-admin-only ones.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			if user.Role != role {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return fmt.Errorf("%w: not authorized as %s", domain.ErrForbidden, role)
			}
			return next(c)
		}
	}
}
