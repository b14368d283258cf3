package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error with a machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common domain error codes
const (
	ErrCodeNegativeQuantity      = "NEGATIVE_QUANTITY"
	ErrCodeZeroQuantity          = "ZERO_QUANTITY"
	ErrCodeQuantityExceedsLimit  = "QUANTITY_EXCEEDS_LIMIT"
	ErrCodeNegativePrice         = "NEGATIVE_PRICE"
	ErrCodeUnknownShippingMethod = "UNKNOWN_SHIPPING_METHOD"
	ErrCodeInvalidTimestamp      = "INVALID_TIMESTAMP"
	ErrCodeInvalidInput          = "INVALID_INPUT"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// NewMalformedCartError creates an error for a cart that violates line item
// invariants. These indicate a caller bug and must never reach end users.
func NewMalformedCartError(code, productID, details string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: "Malformed cart line item",
		Details: fmt.Sprintf("product %s: %s", productID, details),
	}
}

// NewUnknownShippingMethodError creates an error for an unrecognized shipping method
func NewUnknownShippingMethodError(method string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownShippingMethod,
		Message: "Unknown shipping method",
		Details: fmt.Sprintf("method: %s", method),
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(message, details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: fmt.Sprintf("ID: %s", id),
	}
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadyExists,
		Message: fmt.Sprintf("%s already exists", resource),
		Details: fmt.Sprintf("ID: %s", id),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// GetDomainError extracts the domain error from an error chain, or nil
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}
