package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockpro/internal/apierror"
	"stockpro/internal/dto"
	"stockpro/internal/middleware"
	"stockpro/internal/notify"
	"stockpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Mocks ─────────────────────────────────────────────────────────────────────

type mockSaleService struct{ mock.Mock }

func (m *mockSaleService) Commit(ctx context.Context, createdBy *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	args := m.Called(ctx, createdBy, req)
	resp, _ := args.Get(0).(*dto.SaleResponse)
	return resp, args.Error(1)
}

func (m *mockSaleService) Cancel(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*dto.SaleResponse, error) {
	args := m.Called(ctx, id, by)
	resp, _ := args.Get(0).(*dto.SaleResponse)
	return resp, args.Error(1)
}

func (m *mockSaleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.SaleResponse)
	return resp, args.Error(1)
}

func (m *mockSaleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*dto.SaleListResponse)
	return resp, args.Error(1)
}

var _ service.SaleService = (*mockSaleService)(nil)

type mockCartService struct{ mock.Mock }

func (m *mockCartService) cart(args mock.Arguments) (*dto.CartResponse, error) {
	resp, _ := args.Get(0).(*dto.CartResponse)
	return resp, args.Error(1)
}

func (m *mockCartService) Create(ctx context.Context) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx))
}
func (m *mockCartService) Get(ctx context.Context, id string) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx, id))
}
func (m *mockCartService) AddItem(ctx context.Context, id string, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx, id, req))
}
func (m *mockCartService) UpdateItem(ctx context.Context, id, line string, req dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx, id, line, req))
}
func (m *mockCartService) RemoveItem(ctx context.Context, id, line string) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx, id, line))
}
func (m *mockCartService) SetDiscount(ctx context.Context, id string, req dto.SetDiscountRequest) (*dto.CartResponse, error) {
	return m.cart(m.Called(ctx, id, req))
}
func (m *mockCartService) Checkout(ctx context.Context, id string, by *uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	args := m.Called(ctx, id, by, req)
	resp, _ := args.Get(0).(*dto.SaleResponse)
	return resp, args.Error(1)
}
func (m *mockCartService) Discard(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ service.CartService = (*mockCartService)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

var testUser = uuid.MustParse("7b0f2a9e-8a0c-4c55-9d43-3f8f3f1d2a11")

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: testUser.String(), Role: middleware.RoleSeller})
		c.Next()
	})
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var e apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func salesRouter(svc service.SaleService) *gin.Engine {
	r := newTestRouter()
	h := NewSalesHandler(svc)
	r.POST("/v1/sales", h.Create)
	r.GET("/v1/sales", h.List)
	r.GET("/v1/sales/:id", h.Get)
	r.POST("/v1/sales/:id/cancel", h.Cancel)
	return r
}

func TestSalesCreate_Created(t *testing.T) {
	svc := &mockSaleService{}
	n := notify.Success("Venda realizada!", "Venda VND-20260101-00001 foi registrada com sucesso.")
	svc.On("Commit", mock.Anything, &testUser, mock.MatchedBy(func(req dto.CreateSaleRequest) bool {
		return len(req.Items) == 1 && req.PaymentMethod == "pix"
	})).Return(&dto.SaleResponse{SaleNumber: "VND-20260101-00001", Notification: &n}, nil)

	w := doJSON(salesRouter(svc), http.MethodPost, "/v1/sales", map[string]any{
		"items":          []map[string]any{{"product_id": uuid.NewString(), "quantity": 2, "unit_price": "10.00"}},
		"payment_method": "pix",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VND-20260101-00001", resp.SaleNumber)
	assert.Equal(t, "Venda realizada!", resp.Notification.Title)
	svc.AssertExpectations(t)
}

func TestSalesCreate_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: Arroz (disponível: 1, solicitado: 3)", service.ErrInsufficientStock), http.StatusConflict},
		{service.ErrNoItems, http.StatusUnprocessableEntity},
		{service.ErrProductNotFound, http.StatusNotFound},
		{errors.New("connection reset by peer"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			svc := &mockSaleService{}
			svc.On("Commit", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			w := doJSON(salesRouter(svc), http.MethodPost, "/v1/sales", map[string]any{"payment_method": "pix"})
			assert.Equal(t, tc.status, w.Code)

			body := decodeError(t, w)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Detail, "connection reset")
				return
			}
			assert.Equal(t, "Erro ao criar venda", body.Title)
			assert.Equal(t, tc.err.Error(), body.Detail)
		})
	}
}

func TestSalesCreate_BadBody(t *testing.T) {
	svc := &mockSaleService{}
	r := salesRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/sales", map[string]any{
		"items": []map[string]any{{"product_id": "nope", "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSalesCancel(t *testing.T) {
	id := uuid.New()
	svc := &mockSaleService{}
	svc.On("Cancel", mock.Anything, id, &testUser).Return(&dto.SaleResponse{ID: id.String(), Status: "cancelled"}, nil).Once()
	svc.On("Cancel", mock.Anything, id, &testUser).Return(nil, service.ErrSaleAlreadyCancelled).Once()
	r := salesRouter(svc)

	w := doJSON(r, http.MethodPost, "/v1/sales/"+id.String()+"/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/sales/"+id.String()+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Erro ao cancelar venda", decodeError(t, w).Title)

	w = doJSON(r, http.MethodPost, "/v1/sales/not-a-uuid/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestSalesList_FilterValidation(t *testing.T) {
	svc := &mockSaleService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(f dto.SaleFilter) bool {
		return f.Status == "completed" && f.Page == 1 && f.Limit == 50
	})).Return(&dto.SaleListResponse{Total: 0}, nil)
	r := salesRouter(svc)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/v1/sales?status=completed", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(r, http.MethodGet, "/v1/sales?from=01/02/2026", nil).Code)
	svc.AssertExpectations(t)
}

// ── Carts ─────────────────────────────────────────────────────────────────────

func TestCartsRoutes(t *testing.T) {
	svc := &mockCartService{}
	h := NewCartsHandler(svc)
	r := newTestRouter()
	r.POST("/v1/carts/:id/items", h.AddItem)
	r.POST("/v1/carts/:id/checkout", h.Checkout)
	r.DELETE("/v1/carts/:id", h.Discard)
	r.GET("/v1/carts/:id", h.Get)

	productID := uuid.NewString()
	rejected := notify.Failure("Produto sem estoque", "Este produto não possui estoque disponível.")
	svc.On("AddItem", mock.Anything, "c1", dto.AddCartItemRequest{ProductID: productID}).
		Return(&dto.CartResponse{ID: "c1", Notification: &rejected}, nil)
	svc.On("Checkout", mock.Anything, "c1", &testUser, dto.CheckoutRequest{PaymentMethod: "dinheiro"}).
		Return(&dto.SaleResponse{SaleNumber: "VND-20260101-00002"}, nil)
	svc.On("Discard", mock.Anything, "c1").Return(nil)
	svc.On("Get", mock.Anything, "gone").Return(nil, service.ErrCartNotFound)

	w := doJSON(r, http.MethodPost, "/v1/carts/c1/items", map[string]any{"product_id": productID})
	require.Equal(t, http.StatusOK, w.Code)
	var cartResp dto.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	assert.Equal(t, "Produto sem estoque", cartResp.Notification.Title)

	assert.Equal(t, http.StatusCreated,
		doJSON(r, http.MethodPost, "/v1/carts/c1/checkout", map[string]any{"payment_method": "dinheiro"}).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/v1/carts/c1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/v1/carts/gone", nil).Code)
	svc.AssertExpectations(t)
}

func TestHealth_NoBackends(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health(nil, nil, nil))

	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}
