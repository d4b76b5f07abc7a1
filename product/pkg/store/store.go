package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/presmtech/storefront/product/pkg/model"
)

// Filter narrows a catalog listing. Zero values mean "no constraint"; Search
// matches name and description case-insensitively.
type Filter struct {
	Category string
	Status   model.Status
	Search   string
	Skip     int
	Limit    int
}

type Store interface {
	Insert(c context.Context, product *model.Product) error
	// FindById returns errors.ErrProductNotFound when the id is unknown.
	FindById(c context.Context, id uuid.UUID) (*model.Product, error)
	Find(c context.Context, filter Filter) ([]model.Product, error)
	// Update replaces the stored product; errors.ErrProductNotFound when
	// the id is unknown.
	Update(c context.Context, product *model.Product) error
	// Categories aggregates distinct categories of active products with
	// their product counts.
	Categories(c context.Context) ([]model.CategoryCount, error)
}
