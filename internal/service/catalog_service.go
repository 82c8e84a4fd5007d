package service

import (
	"context"
	"strings"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ── Categories ────────────────────────────────────────────────────────────────

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, c cache.Cache) CategoryService {
	if c == nil {
		c = cache.Noop{}
	}
	return &categoryService{repo: repo, cache: c}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if existing, err := s.repo.FindByName(ctx, name); err == nil && existing != nil {
		return nil, ErrDuplicateCategory
	} else if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}

	c := &model.Category{ID: uuid.New(), Name: name, Description: req.Description}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	s.invalidate(ctx)
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	var cached []dto.CategoryResponse
	tok, hit := s.cache.Get(ctx, cache.ViewCatalog, "categories", &cached)
	if hit {
		return cached, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, toCategoryResponse(&list[i]))
	}
	s.cache.Set(ctx, tok, out)
	return out, nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.ViewCatalog); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
}

type supplierService struct {
	repo  repository.SupplierRepository
	cache cache.Cache
}

func NewSupplierService(repo repository.SupplierRepository, c cache.Cache) SupplierService {
	if c == nil {
		c = cache.Noop{}
	}
	return &supplierService{repo: repo, cache: c}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		CNPJ:        req.CNPJ,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, cache.ViewCatalog); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	var cached []dto.SupplierResponse
	tok, hit := s.cache.Get(ctx, cache.ViewCatalog, "suppliers", &cached)
	if hit {
		return cached, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for i := range list {
		out = append(out, toSupplierResponse(&list[i]))
	}
	s.cache.Set(ctx, tok, out)
	return out, nil
}

func toSupplierResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		CNPJ:        s.CNPJ,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		CreatedAt:   formatTime(s.CreatedAt),
	}
}
