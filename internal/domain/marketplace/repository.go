package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Repository
// ---------------------------------------------------------------------------

// OrderRepository persists canonical marketplace orders
type OrderRepository interface {
	// FindByID finds an order by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByExternalID finds an order by its idempotency key
	// (marketplace, externalOrderID); returns ErrOrderNotFound when absent
	FindByExternalID(ctx context.Context, mp Marketplace, externalOrderID string) (*Order, error)

	// FindAll lists orders matching the filter, newest order date first
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// Save creates or updates an order. The unique index on
	// (marketplace, external_order_id) makes concurrent inserts of the same
	// order fail rather than duplicate.
	Save(ctx context.Context, order *Order) error

	// Aggregate computes per-marketplace statistics over the optional date
	// range (order count, revenue, fees, net revenue, average order value)
	Aggregate(ctx context.Context, from, to *time.Time) ([]MarketplaceStats, error)
}

// ---------------------------------------------------------------------------
// Config Repository
// ---------------------------------------------------------------------------

// ConfigRepository persists marketplace configurations
type ConfigRepository interface {
	// FindAll returns every stored configuration
	FindAll(ctx context.Context) ([]Config, error)

	// FindByMarketplace returns the configuration for the marketplace,
	// active or not; ErrConfigNotFoundOrInactive when none exists
	FindByMarketplace(ctx context.Context, mp Marketplace) (*Config, error)

	// FindActive returns the configuration only if it exists and is active
	FindActive(ctx context.Context, mp Marketplace) (*Config, error)

	// Save creates or updates a configuration (upsert by marketplace)
	Save(ctx context.Context, cfg *Config) error
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// MarketplaceStats is one aggregation row of the analytics query
type MarketplaceStats struct {
	Marketplace   Marketplace
	TotalOrders   int64
	TotalRevenue  decimal.Decimal
	TotalFees     decimal.Decimal
	NetRevenue    decimal.Decimal
	AvgOrderValue decimal.Decimal
}
