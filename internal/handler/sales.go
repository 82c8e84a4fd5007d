package handler

import (
	"net/http"

	"stockpro/internal/dto"
	"stockpro/internal/middleware"
	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Register a sale
// @Description  Commits a sale in one transaction: conditional stock decrement, venda movements, receipt job.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale lines and payment"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Commit(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, "Erro ao criar venda", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancel godoc
// @Summary      Cancel a sale
// @Description  Restores stock with devolucao movements and marks the sale cancelled. Amounts are kept.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "Sale UUID"
// @Success      200  {object} dto.SaleResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/{id}/cancel [post]
func (h *SalesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, "Erro ao cancelar venda", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending | completed | cancelled"
// @Param        from   query string false "YYYY-MM-DD"
// @Param        to     query string false "YYYY-MM-DD"
// @Success      200  {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
