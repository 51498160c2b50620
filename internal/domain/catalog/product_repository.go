package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by normalized SKU.
	// Returns shared.ErrNotFound when no product matches.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByNameExact finds a product whose name matches case-insensitively.
	// Returns shared.ErrNotFound when no product matches.
	FindByNameExact(ctx context.Context, name string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
