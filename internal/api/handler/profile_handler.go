package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}

// Update edits the caller's own profile. Empty fields stay unchanged; a
// supplied password is re-hashed before persistence.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), actor.ID, ports.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}
