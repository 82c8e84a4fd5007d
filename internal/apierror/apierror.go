// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Title mirrors the notification title the dashboard shows for the same failure.
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func New(title, detail string) *APIError {
	return &APIError{Title: title, Detail: detail}
}

// Internal is the body of every 500: details stay in the logs.
func Internal() *APIError {
	return New("Erro", "Erro interno do servidor")
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Title  string            `json:"title"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Title: "Erro", Detail: "Erro de validação", Fields: fields}
}
