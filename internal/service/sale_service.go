package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/notify"
	"stockpro/internal/repository"
	"stockpro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const instrumentationName = "stockpro/internal/service"

type SaleService interface {
	Commit(ctx context.Context, createdBy *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, cancelledBy *uuid.UUID) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

// ReceiptQueue accepts receipt jobs for committed sales; *worker.Dispatcher
// implements it.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, payload worker.ReceiptJobPayload) error
}

// SaleDeps groups the collaborators of the sale workflows. Cache, Notifier
// and Receipts are optional.
type SaleDeps struct {
	Sales     repository.SaleRepository
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Numbers   repository.SaleNumberGenerator
	Cache     cache.Cache
	Notifier  notify.Notifier
	Receipts  ReceiptQueue
	Location  *time.Location
}

type saleService struct {
	SaleDeps
	tracer    trace.Tracer
	committed metric.Int64Counter
	cancelled metric.Int64Counter
	revenue   metric.Float64Counter
}

func NewSaleService(deps SaleDeps) SaleService {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewRedisNotifier(nil)
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	meter := otel.Meter(instrumentationName)
	committed, _ := meter.Int64Counter("sales.committed", metric.WithDescription("Sales committed"))
	cancelled, _ := meter.Int64Counter("sales.cancelled", metric.WithDescription("Sales cancelled"))
	revenue, _ := meter.Float64Counter("sales.revenue", metric.WithDescription("Final amount of committed sales"))
	return &saleService{
		SaleDeps:  deps,
		tracer:    otel.Tracer(instrumentationName),
		committed: committed,
		cancelled: cancelled,
		revenue:   revenue,
	}
}

// ── Commit ────────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. next sale number
//   2. resolve omitted unit prices, compute totals
//   3. insert sale (completed)
//   4. per line: insert item, conditional stock decrement, venda movement
// After COMMIT: invalidate views, notify, enqueue receipt (best effort).

type resolvedLine struct {
	productID uuid.UUID
	quantity  int
	unitPrice decimal.Decimal
	priced    bool           // unit price supplied by the caller
	product   *model.Product // set when the price came from the catalog
}

func (s *saleService) Commit(ctx context.Context, createdBy *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.Commit", trace.WithAttributes(
		attribute.Int("sale.items", len(req.Items)),
		attribute.String("sale.payment_method", req.PaymentMethod),
	))
	defer span.End()

	lines, err := validateSaleRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.Notifier.Notify(ctx, notify.Failure("Erro", err.Error()))
		return nil, err
	}

	sale, err := s.commit(ctx, createdBy, req, lines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Err(err).Msg("sale commit failed")
		s.Notifier.Notify(ctx, notify.Failure("Erro ao criar venda", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.String("sale.number", sale.SaleNumber))

	s.afterWrite(ctx)
	s.committed.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", sale.PaymentMethod)))
	s.revenue.Add(ctx, sale.FinalAmount.InexactFloat64())

	if s.Receipts != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if sale.CustomerEmail != nil {
			payload.CustomerEmail = *sale.CustomerEmail
		}
		if err := s.Receipts.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Str("sale_number", sale.SaleNumber).Msg("receipt job not enqueued")
		}
	}

	n := notify.Success("Venda realizada!", fmt.Sprintf("Venda %s foi registrada com sucesso.", sale.SaleNumber))
	s.Notifier.Notify(ctx, n)

	log.Info().Str("sale_number", sale.SaleNumber).Str("final_amount", sale.FinalAmount.StringFixed(2)).
		Int("items", len(sale.Items)).Msg("sale committed")

	resp := toSaleResponse(sale)
	resp.Notification = &n
	return &resp, nil
}

func validateSaleRequest(req dto.CreateSaleRequest) ([]resolvedLine, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	if req.PaymentMethod == "" {
		return nil, ErrNoPaymentMethod
	}
	if !model.IsPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrNoPaymentMethod, req.PaymentMethod)
	}
	if req.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: o desconto não pode ser negativo", ErrInvalidDiscount)
	}

	lines := make([]resolvedLine, 0, len(req.Items))
	for i, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d product_id %q", ErrInvalidID, i+1, it.ProductID)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w (item %d)", ErrInvalidQuantity, i+1)
		}
		l := resolvedLine{productID: id, quantity: it.Quantity}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w (item %d)", ErrInvalidPrice, i+1)
			}
			l.unitPrice = *it.UnitPrice
			l.priced = true
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (s *saleService) commit(ctx context.Context, createdBy *uuid.UUID, req dto.CreateSaleRequest, lines []resolvedLine) (*model.Sale, error) {
	var sale model.Sale

	txErr := runTx(ctx, s.Sales.DB(), func(tx *gorm.DB) error {
		// Lines without a price are charged at the current catalog price.
		total := decimal.Zero
		for i := range lines {
			if !lines[i].priced {
				p, err := s.Products.FindByIDTx(tx, lines[i].productID)
				if err != nil {
					if repository.IsNotFound(err) {
						return fmt.Errorf("%w: %s", ErrProductNotFound, lines[i].productID)
					}
					return err
				}
				lines[i].unitPrice = p.SalePrice
				lines[i].product = p
			}
			total = total.Add(lines[i].unitPrice.Mul(decimal.NewFromInt(int64(lines[i].quantity))))
		}
		if req.DiscountAmount.GreaterThan(total) {
			return fmt.Errorf("%w: o desconto excede o total da venda", ErrInvalidDiscount)
		}

		number, err := s.Numbers.NextTx(tx)
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}

		now := time.Now()
		sale = model.Sale{
			ID:               uuid.New(),
			SaleNumber:       number,
			CustomerName:     req.CustomerName,
			CustomerDocument: req.CustomerDocument,
			CustomerEmail:    req.CustomerEmail,
			TotalAmount:      total,
			DiscountAmount:   req.DiscountAmount,
			FinalAmount:      total.Sub(req.DiscountAmount),
			PaymentMethod:    req.PaymentMethod,
			Status:           model.SaleStatusCompleted,
			CreatedAt:        now,
			CompletedAt:      &now,
			CreatedBy:        createdBy,
			Notes:            req.Notes,
		}
		if err := s.Sales.CreateTx(tx, &sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		for _, l := range lines {
			item := model.SaleItem{
				ID:         uuid.New(),
				SaleID:     sale.ID,
				ProductID:  l.productID,
				Quantity:   l.quantity,
				UnitPrice:  l.unitPrice,
				TotalPrice: l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity))),
				CreatedAt:  time.Now(),
			}
			if err := s.Sales.CreateItemTx(tx, &item); err != nil {
				if repository.IsForeignKeyViolation(err) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, l.productID)
				}
				return fmt.Errorf("insert sale item: %w", err)
			}

			product, err := s.decrementStock(tx, l)
			if err != nil {
				return err
			}
			item.Product = product

			cost := l.unitPrice
			notes := "Venda " + number
			movement := model.StockMovement{
				ID:                uuid.New(),
				ProductID:         l.productID,
				Quantity:          -l.quantity,
				Type:              model.MovementSale,
				UnitCost:          &cost,
				ReferenceDocument: &sale.SaleNumber,
				Notes:             &notes,
				CreatedBy:         createdBy,
				CreatedAt:         time.Now(),
			}
			if err := s.Movements.CreateTx(tx, &movement); err != nil {
				return fmt.Errorf("insert stock movement: %w", err)
			}
			sale.Items = append(sale.Items, item)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &sale, nil
}

// decrementStock applies the conditional decrement and explains a refusal.
// On success it returns the product row so the response can name the item;
// priced lines did not load it before.
func (s *saleService) decrementStock(tx *gorm.DB, l resolvedLine) (*model.Product, error) {
	ok, err := s.Products.DecrementStockTx(tx, l.productID, l.quantity)
	if err != nil {
		if repository.IsCheckViolation(err) {
			return nil, fmt.Errorf("%w: produto %s", ErrInsufficientStock, l.productID)
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}
	if ok && l.product != nil {
		return l.product, nil
	}
	p, err := s.Products.FindByIDTx(tx, l.productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, l.productID)
		}
		return nil, err
	}
	if ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s (disponível: %d, solicitado: %d)",
		ErrInsufficientStock, p.Name, p.StockQuantity, l.quantity)
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// One ACID transaction: lock the sale row, refuse if already cancelled, give
// every item's quantity back to stock with a devolucao movement, mark the
// sale cancelled. Amounts are kept for audit.

func (s *saleService) Cancel(ctx context.Context, id uuid.UUID, cancelledBy *uuid.UUID) (*dto.SaleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.Cancel", trace.WithAttributes(
		attribute.String("sale.id", id.String()),
	))
	defer span.End()

	var sale *model.Sale
	txErr := runTx(ctx, s.Sales.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.Sales.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSaleNotFound
			}
			return fmt.Errorf("load sale: %w", err)
		}
		if sale.IsCancelled() {
			return ErrSaleAlreadyCancelled
		}

		notes := "Cancelamento da venda " + sale.SaleNumber
		for _, item := range sale.Items {
			if err := s.Products.IncrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
			cost := item.UnitPrice
			movement := model.StockMovement{
				ID:                uuid.New(),
				ProductID:         item.ProductID,
				Quantity:          item.Quantity,
				Type:              model.MovementReturn,
				UnitCost:          &cost,
				ReferenceDocument: &sale.SaleNumber,
				Notes:             &notes,
				CreatedBy:         cancelledBy,
				CreatedAt:         time.Now(),
			}
			if err := s.Movements.CreateTx(tx, &movement); err != nil {
				return fmt.Errorf("insert stock movement: %w", err)
			}
		}

		if err := s.Sales.UpdateStatusTx(tx, sale.ID, model.SaleStatusCancelled); err != nil {
			return fmt.Errorf("update sale status: %w", err)
		}
		sale.Status = model.SaleStatusCancelled
		return nil
	})
	if txErr != nil {
		span.RecordError(txErr)
		span.SetStatus(codes.Error, txErr.Error())
		s.Notifier.Notify(ctx, notify.Failure("Erro ao cancelar venda", txErr.Error()))
		return nil, txErr
	}

	s.afterWrite(ctx)
	s.cancelled.Add(ctx, 1)

	n := notify.Success("Venda cancelada!",
		fmt.Sprintf("Venda %s foi cancelada e o estoque foi restaurado.", sale.SaleNumber))
	s.Notifier.Notify(ctx, n)
	log.Info().Str("sale_number", sale.SaleNumber).Msg("sale cancelled")

	resp := toSaleResponse(sale)
	resp.Notification = &n
	return &resp, nil
}

// afterWrite drops every view derived from sales or stock. Best effort.
func (s *saleService) afterWrite(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx, cache.SaleViews...); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.Sales.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	resp := toSaleResponse(sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	key := fmt.Sprintf("%s|%s|%s|%d|%d", filter.Status, filter.From, filter.To, filter.Page, filter.Limit)
	var cached dto.SaleListResponse
	tok, hit := s.Cache.Get(ctx, cache.ViewSales, key, &cached)
	if hit {
		return &cached, nil
	}

	sales, total, err := s.Sales.List(ctx, filter, s.Location)
	if err != nil {
		return nil, err
	}
	resp := dto.SaleListResponse{
		Data:  make([]dto.SaleResponse, 0, len(sales)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range sales {
		resp.Data = append(resp.Data, toSaleResponse(&sales[i]))
	}
	s.Cache.Set(ctx, tok, resp)
	return &resp, nil
}

func toSaleResponse(s *model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID.String(),
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return dto.SaleResponse{
		ID:               s.ID.String(),
		SaleNumber:       s.SaleNumber,
		CustomerName:     s.CustomerName,
		CustomerDocument: s.CustomerDocument,
		CustomerEmail:    s.CustomerEmail,
		Items:            items,
		TotalAmount:      s.TotalAmount,
		DiscountAmount:   s.DiscountAmount,
		FinalAmount:      s.FinalAmount,
		PaymentMethod:    s.PaymentMethod,
		Status:           s.Status,
		Notes:            s.Notes,
		CreatedAt:        formatTime(s.CreatedAt),
		CompletedAt:      formatTimePtr(s.CompletedAt),
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

