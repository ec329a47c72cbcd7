package services

import (
	"errors"

	apperrors "financebot/internal/errors"
	"financebot/internal/store"
)

// storeError maps a Record Store failure to an AppError. A missing or foreign
// row becomes notFound; anything else is a STORE_ERROR.
func storeError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrStore, err)
}
