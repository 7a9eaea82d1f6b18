package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/middleware"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware. Its
// presence proves the middleware ran; a missing identity on a protected
// route is a wiring error and fails closed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
