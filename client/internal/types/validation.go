package types

import (
	"errors"

	"github.com/google/uuid"
)

// ErrValidation marks input rejected before any remote call.
var ErrValidation = errors.New("validation error")

// ValidateMemo checks the fields a memo write cannot do without.
func ValidateMemo(m Memo) error {
	if m.CategoryID == uuid.Nil {
		return errors.Join(ErrValidation, errors.New("memo category_id is required"))
	}
	return nil
}

// ValidateID rejects the nil UUID for lookups by identity.
func ValidateID(kind string, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.Join(ErrValidation, errors.New(kind+" id is required"))
	}
	return nil
}
