package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("document not found")
	ErrExtraction         = errors.New("text extraction failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrAnswerUnavailable  = errors.New("answer unavailable")
)

// WrapError attaches an error kind and the failing operation to err.
// Both kind and err stay reachable through errors.Is.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
