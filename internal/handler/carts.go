package handler

import (
	"net/http"

	"stockpro/internal/dto"
	"stockpro/internal/middleware"
	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

// CartsHandler exposes the sale builder. Rejected builder operations answer
// 200 with the unchanged cart and a destructive notification.
type CartsHandler struct{ svc service.CartService }

func NewCartsHandler(svc service.CartService) *CartsHandler { return &CartsHandler{svc: svc} }

func (h *CartsHandler) Create(c *gin.Context) {
	resp, err := h.svc.Create(c.Request.Context())
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CartsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("line"), req)
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) RemoveItem(c *gin.Context) {
	resp, err := h.svc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("line"))
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) SetDiscount(c *gin.Context) {
	var req dto.SetDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetDiscount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Checkout commits the cart as a sale at the prices shown to the operator.
func (h *CartsHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, "Erro ao criar venda", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CartsHandler) Discard(c *gin.Context) {
	if err := h.svc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.Status(http.StatusNoContent)
}
