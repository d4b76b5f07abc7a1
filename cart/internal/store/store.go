package store

import (
	"context"

	"github.com/presmtech/storefront/cart/pkg/model"
)

// Store persists one Cart per session identifier. Save is a compare-and-swap
// on Cart.Version: the write succeeds only if the stored record still carries
// the version the caller loaded, and the version is incremented on success.
// A conflicting concurrent save returns errors.ErrVersionConflict.
type Store interface {
	// Load returns errors.ErrCartNotFound when no cart exists for the session.
	Load(c context.Context, sessionID string) (*model.Cart, error)
	Save(c context.Context, cart *model.Cart) error
	Delete(c context.Context, sessionID string) error
}
