package marketplace

import (
	"context"
	"encoding/json"
	"time"
)

// RawOrder is an unparsed order payload as returned by a marketplace API.
// Its shape is marketplace-specific; only the adapter that fetched it knows
// how to interpret it.
type RawOrder json.RawMessage

// OrderAdapter is the port implemented once per marketplace. Each adapter
// knows how to fetch raw orders from its marketplace's order-listing API and
// how to normalize a single raw order into the canonical Order schema.
//
// Adapters do not retry or paginate; error handling beyond a single bounded
// request is the orchestrator's concern.
type OrderAdapter interface {
	// Marketplace returns the marketplace this adapter handles
	Marketplace() Marketplace

	// FetchOrders fetches raw orders created within [from, to]. A transport
	// or API failure returns an error wrapping ErrAPIRequestFailed (or
	// ErrAPITimeout when the request deadline was exceeded).
	FetchOrders(ctx context.Context, from, to time.Time) ([]RawOrder, error)

	// NormalizeOrder converts one raw order into the canonical schema.
	// Unrecognized marketplace status strings map to OrderStatusPending;
	// implementations log a warning when that fallback fires so adapter
	// drift is visible.
	NormalizeOrder(raw RawOrder) (*Order, error)
}

// AdapterRegistry resolves marketplace identifiers to stored configurations
// and constructs the matching adapter. It has no side effects.
type AdapterRegistry interface {
	// ResolveConfig returns the active configuration for the marketplace, or
	// ErrConfigNotFoundOrInactive when none exists or it is disabled.
	ResolveConfig(ctx context.Context, mp Marketplace) (*Config, error)

	// AdapterFor constructs the adapter for the config's marketplace, or
	// returns ErrUnsupportedMarketplace for unknown identifiers.
	AdapterFor(cfg *Config) (OrderAdapter, error)
}
