package repository

import (
	"errors"

	"gorm.io/gorm"
)

// SaleNumberGenerator hands out unique, human-readable sale numbers.
type SaleNumberGenerator interface {
	NextTx(tx *gorm.DB) (string, error)
}

// pgSaleNumberGenerator calls the generate_sale_number() SQL function installed
// by the schema patches. The underlying sequence is not transactional, so a
// rolled-back sale leaves a gap in the numbering.
type pgSaleNumberGenerator struct{}

func NewSaleNumberGenerator() SaleNumberGenerator { return pgSaleNumberGenerator{} }

func (pgSaleNumberGenerator) NextTx(tx *gorm.DB) (string, error) {
	var number string
	if err := tx.Raw("SELECT generate_sale_number()").Scan(&number).Error; err != nil {
		return "", err
	}
	if number == "" {
		return "", errors.New("generate_sale_number returned no value")
	}
	return number, nil
}
