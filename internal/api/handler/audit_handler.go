package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List returns the most recent audit entries, newest first.
//
// @Summary      List recent audit entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries to return"
// @Success      200    {array}   domain.AuditEntry
// @Failure      403    {object}  errorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
