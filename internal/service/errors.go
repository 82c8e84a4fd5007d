package service

import (
	"errors"

	"stockpro/internal/cart"
)

// Validation errors: the request cannot be processed as sent.
var (
	ErrNoItems         = errors.New("Adicione pelo menos um item à venda.")
	ErrNoPaymentMethod = errors.New("Selecione uma forma de pagamento válida.")
	ErrInvalidQuantity = errors.New("a quantidade deve ser maior que zero")
	ErrInvalidPrice    = errors.New("o preço unitário não pode ser negativo")
	ErrInvalidDiscount = errors.New("desconto inválido")
	ErrInvalidID       = errors.New("identificador inválido")
	ErrInvalidRef      = errors.New("categoria ou fornecedor inexistente")
	ErrInvalidDate     = errors.New("data inválida, use AAAA-MM-DD")
)

// Business conflicts: the request is valid but current state forbids it.
var (
	ErrInsufficientStock    = cart.ErrInsufficientStock
	ErrOutOfStock           = cart.ErrOutOfStock
	ErrSaleAlreadyCancelled = errors.New("Venda já foi cancelada")
	ErrDuplicateCategory    = errors.New("já existe uma categoria com este nome")
	ErrProductInUse         = errors.New("produto possui vendas ou movimentações registradas")
)

// Lookups that found nothing.
var (
	ErrSaleNotFound    = errors.New("venda não encontrada")
	ErrProductNotFound = errors.New("produto não encontrado")
	ErrCartNotFound    = cart.ErrCartNotFound
	ErrLineNotFound    = cart.ErrLineNotFound
)

// IsValidation reports errors the HTTP layer renders as 422.
func IsValidation(err error) bool {
	for _, target := range []error{ErrNoItems, ErrNoPaymentMethod, ErrInvalidQuantity, ErrInvalidPrice,
		ErrInvalidDiscount, ErrInvalidID, ErrInvalidRef, ErrInvalidDate} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports business conflicts rendered as 409.
func IsConflict(err error) bool {
	for _, target := range []error{ErrInsufficientStock, ErrOutOfStock, ErrSaleAlreadyCancelled,
		ErrDuplicateCategory, ErrProductInUse} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports missing entities rendered as 404.
func IsNotFound(err error) bool {
	for _, target := range []error{ErrSaleNotFound, ErrProductNotFound, ErrCartNotFound, ErrLineNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
