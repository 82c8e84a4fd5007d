package handler

import (
	"net/http"

	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the dashboard aggregates and the operational reports.
type StatsHandler struct {
	stats   service.StatsService
	reports service.ReportService
}

func NewStatsHandler(stats service.StatsService, reports service.ReportService) *StatsHandler {
	return &StatsHandler{stats: stats, reports: reports}
}

// respond writes v or maps err; shared by the read-only endpoints below.
func respond[T any](c *gin.Context, v T, err error) {
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// SalesStats godoc
// @Summary      Today's sales versus yesterday and the monthly goal
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.SalesStatsResponse
// @Router       /v1/sales/stats [get]
func (h *StatsHandler) SalesStats(c *gin.Context) {
	resp, err := h.stats.SalesStats(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	resp, err := h.stats.Dashboard(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) Analytics(c *gin.Context) {
	resp, err := h.stats.Analytics(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) LowStock(c *gin.Context) {
	resp, err := h.reports.LowStock(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) Expiring(c *gin.Context) {
	resp, err := h.reports.Expiring(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) PurchaseSuggestions(c *gin.Context) {
	resp, err := h.reports.PurchaseSuggestions(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) StockMovements(c *gin.Context) {
	resp, err := h.reports.RecentMovements(c.Request.Context())
	respond(c, resp, err)
}

func (h *StatsHandler) SalesReport(c *gin.Context) {
	resp, err := h.reports.Sales(c.Request.Context())
	respond(c, resp, err)
}
