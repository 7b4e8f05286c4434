package domain

import (
	"errors"
	"fmt"
)

// Ошибки предметной области. HTTP-слой сопоставляет их со статусами через errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// NewValidationError оборачивает ошибку валидации (в т.ч. validation.Errors) в ErrValidation.
func NewValidationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
