package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByMarketplaceOrderID finds the sale converted from the given
	// marketplace order. Returns shared.ErrNotFound when the order has not
	// been converted.
	FindByMarketplaceOrderID(ctx context.Context, orderID uuid.UUID) (*Sale, error)

	// FindAll finds all sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// NextInvoiceSequence returns the next invoice sequence number for the
	// given date, starting at 1 each day
	NextInvoiceSequence(ctx context.Context, date time.Time) (int, error)

	// Save creates or updates a sale and its items
	Save(ctx context.Context, sale *Sale) error
}
