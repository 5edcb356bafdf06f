package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
}

func NewAnalyticsHandler(analyticsService ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard returns the admin overview. Admin only.
//
// @Summary      Admin dashboard
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      403  {object}  map[string]string
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	stats, err := h.analyticsService.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// History returns recent analyses: all users' for admins, the caller's own
// otherwise.
//
// @Summary      Analysis history
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.AnalysisRecord
// @Router       /analytics/history [get]
func (h *AnalyticsHandler) History(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	records, err := h.analyticsService.History(c.Request().Context(), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
