package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/presmtech/storefront/gangsheet/pkg/model"
)

// Store persists gang sheets. Update is a compare-and-swap on
// GangSheet.Version: it succeeds only against the version the caller loaded
// and increments it on success, returning errors.ErrVersionConflict
// otherwise.
type Store interface {
	Insert(c context.Context, sheet *model.GangSheet) error
	// FindById returns errors.ErrSheetNotFound when the id is unknown.
	FindById(c context.Context, id uuid.UUID) (*model.GangSheet, error)
	// FindByUser lists a user's sheets newest first.
	FindByUser(c context.Context, userID string, skip, limit int) ([]model.GangSheet, error)
	Update(c context.Context, sheet *model.GangSheet) error
}
