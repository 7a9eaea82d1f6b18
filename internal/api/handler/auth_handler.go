package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateSuperAdmin bootstraps the one super-admin account.
//
// @Summary      Create the super admin (one-time initialization)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Super admin details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/createSuperAdmin [post]
func (h *AuthHandler) CreateSuperAdmin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.BootstrapSuperAdmin(c.Request().Context(), ports.Credentials{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAuthResponse(result.User, result.Token))
}

// CreateAdmin registers a new admin account.
//
// @Summary      Create an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Admin details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/createAdmin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.CreateAdmin(c.Request().Context(), actor, ports.Credentials{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAuthResponse(result.User, result.Token))
}

// Login authenticates an account and returns a fresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(result.User, result.Token))
}

// ListAdmins returns all admin accounts.
//
// @Summary      List admin accounts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   profileResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/admins [get]
func (h *AuthHandler) ListAdmins(c echo.Context) error {
	admins, err := h.authService.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]profileResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, profileResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role})
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteAdmin removes an admin account.
//
// @Summary      Delete an admin account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Admin id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/admin/{id} [delete]
func (h *AuthHandler) DeleteAdmin(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAdmin(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "admin removed"})
}
