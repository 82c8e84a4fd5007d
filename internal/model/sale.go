package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale status values. Cancelled is terminal.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Payment methods accepted at the counter.
const (
	PaymentCash       = "dinheiro"
	PaymentDebitCard  = "cartao_debito"
	PaymentCreditCard = "cartao_credito"
	PaymentPix        = "pix"
	PaymentOther      = "outros"
)

// PaymentMethods lists every valid payment method value.
var PaymentMethods = []string{PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentPix, PaymentOther}

// IsPaymentMethod reports whether m is one of PaymentMethods.
func IsPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale is the header of a POS transaction.
// FinalAmount = TotalAmount - DiscountAmount. Amounts are kept as-is when the
// sale is cancelled so the record stays auditable.
type Sale struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleNumber       string    `gorm:"uniqueIndex;not null"`
	CustomerName     *string
	CustomerDocument *string
	CustomerEmail    *string
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt        time.Time       `gorm:"index"`
	CompletedAt      *time.Time
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	Notes            *string

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// IsCancelled reports whether the sale reached its terminal state.
func (s *Sale) IsCancelled() bool { return s.Status == SaleStatusCancelled }

// SaleItem is an immutable line of a Sale. UnitPrice is the price at the time
// of sale, independent of later product edits.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
