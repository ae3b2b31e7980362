package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Extraction-quality errors. These mark a publication record that must be
// skipped during ingestion, never a fatal run failure.
var (
	ErrYearNotFound = NewDomainError(ErrCodeNotFound, "publication year not found in citation section")
	ErrEmptyBody    = NewDomainError(ErrCodeNotFound, "no body text found in content sections")
)

// Validation errors
var (
	ErrEmptyText = NewDomainError(ErrCodeValidation, "text cannot be empty")
)
