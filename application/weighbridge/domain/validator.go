package domain

import (
	"fmt"
	"unicode/utf8"
)

const (
	maxLicenseNumberLength = 64
	maxDriverNameLength    = 255
	maxQueryLength         = 255
)

// validator implements the Validator interface
type validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() Validator {
	return &validator{}
}

// ValidateSave checks a create/edit payload. Plate, name and weights are
// otherwise free-form; only the column sizes of the ticket table are enforced.
func (v *validator) ValidateSave(payload *SavePayload) error {
	if payload.ID < 0 {
		return fmt.Errorf("%w: id must be >= 0, got %d", ErrInvalidPayload, payload.ID)
	}

	if n := utf8.RuneCountInString(payload.LicenseNumber); n > maxLicenseNumberLength {
		return fmt.Errorf("%w: licenseNumber exceeds %d characters, got %d", ErrInvalidPayload, maxLicenseNumberLength, n)
	}

	if n := utf8.RuneCountInString(payload.DriverName); n > maxDriverNameLength {
		return fmt.Errorf("%w: driverName exceeds %d characters, got %d", ErrInvalidPayload, maxDriverNameLength, n)
	}

	if payload.Timestamp.Valid && payload.Timestamp.Int64 < 0 {
		return fmt.Errorf("%w: timestamp must be >= 0, got %d", ErrInvalidPayload, payload.Timestamp.Int64)
	}

	return nil
}

// ValidateFilter checks a list filter payload
func (v *validator) ValidateFilter(payload *FilterPayload) error {
	if n := utf8.RuneCountInString(payload.Query); n > maxQueryLength {
		return fmt.Errorf("%w: query exceeds %d characters, got %d", ErrInvalidPayload, maxQueryLength, n)
	}
	return nil
}
