package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, createdBy *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	cache     cache.Cache
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository, c cache.Cache) ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &productService{repo: repo, movements: movements, cache: c}
}

// Create inserts the product and, when it starts with stock, the matching
// entrada movement so the ledger explains the opening balance.
func (s *productService) Create(ctx context.Context, createdBy *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.SalePrice.IsNegative() || (req.PurchasePrice != nil && req.PurchasePrice.IsNegative()) {
		return nil, ErrInvalidPrice
	}
	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseOptionalID(req.SupplierID)
	if err != nil {
		return nil, err
	}
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		EAN:           req.EAN,
		InternalCode:  req.InternalCode,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
		Unit:          req.Unit,
		Status:        req.Status,
		ExpiryDate:    expiry,
	}
	if p.Unit == "" {
		p.Unit = "un"
	}
	if p.Status == "" {
		p.Status = model.ProductActive
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			if repository.IsForeignKeyViolation(err) {
				return ErrInvalidRef
			}
			return err
		}
		if p.StockQuantity == 0 {
			return nil
		}
		notes := "Estoque inicial"
		return s.movements.CreateTx(tx, &model.StockMovement{
			ID:        uuid.New(),
			ProductID: p.ID,
			Quantity:  p.StockQuantity,
			Type:      model.MovementInbound,
			UnitCost:  p.PurchasePrice,
			Notes:     &notes,
			CreatedBy: createdBy,
			CreatedAt: time.Now(),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidate(ctx, cache.ViewStockMovements)
	log.Info().Str("product_id", p.ID.String()).Str("name", p.Name).Msg("product created")
	return s.Get(ctx, p.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	key := fmt.Sprintf("%s|%s|%s|%s|%d|%d", filter.Search, filter.Status, filter.CategoryID,
		filter.SupplierID, filter.Page, filter.Limit)
	var cached dto.ProductListResponse
	tok, hit := s.cache.Get(ctx, cache.ViewProducts, key, &cached)
	if hit {
		return &cached, nil
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListResponse{
		Data:       make([]dto.ProductResponse, 0, len(products)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}
	for i := range products {
		resp.Data = append(resp.Data, ToProductResponse(&products[i]))
	}
	s.cache.Set(ctx, tok, resp)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.EAN != nil {
		p.EAN = req.EAN
	}
	if req.InternalCode != nil {
		p.InternalCode = req.InternalCode
	}
	if req.CategoryID != nil {
		if p.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
			return nil, err
		}
		p.Category = nil
	}
	if req.SupplierID != nil {
		if p.SupplierID, err = parseOptionalID(req.SupplierID); err != nil {
			return nil, err
		}
		p.Supplier = nil
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		p.PurchasePrice = req.PurchasePrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		p.SalePrice = *req.SalePrice
	}
	if req.MinStock != nil {
		p.MinStock = req.MinStock
	}
	if req.MaxStock != nil {
		p.MaxStock = req.MaxStock
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.ExpiryDate != nil {
		if p.ExpiryDate, err = parseOptionalDate(req.ExpiryDate); err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrInvalidRef
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case repository.IsNotFound(err):
			return ErrProductNotFound
		case repository.IsForeignKeyViolation(err):
			return ErrProductInUse
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) invalidate(ctx context.Context, extra ...string) {
	views := append(append([]string{}, cache.ProductViews...), extra...)
	if err := s.cache.Invalidate(ctx, views...); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// ToProductResponse maps a product, resolving the optional category and
// supplier names when they were loaded.
func ToProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		EAN:           p.EAN,
		InternalCode:  p.InternalCode,
		CategoryID:    idString(p.CategoryID),
		CategoryName:  p.CategoryName(),
		SupplierID:    idString(p.SupplierID),
		SupplierName:  p.SupplierName(),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		Unit:          p.Unit,
		Status:        p.Status,
		ExpiryDate:    formatDatePtr(p.ExpiryDate),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseOptionalID treats nil and "" as "no reference".
func parseOptionalID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, *s)
	}
	return &id, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: data %q", ErrInvalidDate, *s)
	}
	return &t, nil
}
