package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor products are bought from.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	CNPJ        *string   `gorm:"column:cnpj"`
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
	CreatedAt   time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
