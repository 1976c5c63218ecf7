package service

import (
	"fmt"
	"unicode/utf8"
)

// Input bounds enforced at the façade boundary, before any write.
const (
	credentialMinLen = 4
	credentialMaxLen = 50
	nameMinLen       = 4
	nameMaxLen       = 50
	genreNameMinLen  = 3
	genreNameMaxLen  = 50
	freeTextMaxLen   = 1000
)

func validateRange(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at least %d characters", min)}
	}
	if n > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

func validateFreeText(field, value string) error {
	if utf8.RuneCountInString(value) > freeTextMaxLen {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", freeTextMaxLen)}
	}
	return nil
}
