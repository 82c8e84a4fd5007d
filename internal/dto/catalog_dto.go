package dto

// ── Categories ────────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name        string  `json:"name"         validate:"required,min=2,max=150"`
	CNPJ        *string `json:"cnpj"         validate:"omitempty,min=14,max=18"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=100"`
	Phone       *string `json:"phone"        validate:"omitempty,max=30"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Address     *string `json:"address"`
}

type SupplierResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CNPJ        *string `json:"cnpj"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	CreatedAt   string  `json:"created_at"`
}
