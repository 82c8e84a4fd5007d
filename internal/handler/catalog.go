package handler

import (
	"net/http"

	"stockpro/internal/dto"
	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the category and supplier lookups.
type CatalogHandler struct {
	categories service.CategoryService
	suppliers  service.SupplierService
}

func NewCatalogHandler(categories service.CategoryService, suppliers service.SupplierService) *CatalogHandler {
	return &CatalogHandler{categories: categories, suppliers: suppliers}
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Erro ao criar categoria", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.suppliers.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Erro ao criar fornecedor", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	resp, err := h.suppliers.List(c.Request.Context())
	if err != nil {
		respondError(c, "Erro", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
