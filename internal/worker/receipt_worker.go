package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF receipt of a
// committed sale and, when the customer left an e-mail, queues its delivery.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stockpro/internal/infra"
	"stockpro/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReceiptJobPayload identifies the sale whose receipt must be produced.
type ReceiptJobPayload struct {
	SaleID        string `json:"sale_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// SaleLoader loads a sale with its items and products.
type SaleLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

// EmailEnqueuer queues receipt e-mails.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// ReceiptWorker turns committed sales into PDF receipts.
type ReceiptWorker struct {
	sales        SaleLoader
	emails       EmailEnqueuer // nil disables e-mail delivery
	businessName string
	storagePath  string
	render       func(sale *model.Sale, businessName, storagePath string) (string, error)
}

func NewReceiptWorker(sales SaleLoader, emails EmailEnqueuer, businessName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		sales:        sales,
		emails:       emails,
		businessName: businessName,
		storagePath:  storagePath,
		render:       infra.GenerateReceiptPDF,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: invalid receipt payload: %v", ErrPermanent, err)
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		return fmt.Errorf("%w: invalid sale_id %q", ErrPermanent, payload.SaleID)
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: sale %s not found", ErrPermanent, saleID)
		}
		return fmt.Errorf("load sale: %w", err)
	}

	pdfPath, err := w.render(sale, w.businessName, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("sale_number", sale.SaleNumber).Str("path", pdfPath).Msg("receipt_worker: PDF generated")

	to := payload.CustomerEmail
	if to == "" && sale.CustomerEmail != nil {
		to = *sale.CustomerEmail
	}
	if to == "" || w.emails == nil {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("%s - comprovante da venda %s", w.businessName, sale.SaleNumber),
		Body: fmt.Sprintf("Olá! Segue em anexo o comprovante da venda %s no valor de R$ %s.\n\nObrigado pela preferência.",
			sale.SaleNumber, sale.FinalAmount.StringFixed(2)),
		PDFPath: pdfPath,
	})
}
