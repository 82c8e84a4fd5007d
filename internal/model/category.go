package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for filtering and reports.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
}
