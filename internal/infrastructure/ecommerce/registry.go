package ecommerce

import (
	"context"

	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// Registry resolves marketplace configurations and constructs the matching
// adapter. Adapters are cheap to build, so no caching is done: each sync
// cycle sees the credentials currently stored.
type Registry struct {
	configs marketplace.ConfigRepository
	logger  *zap.Logger
}

var _ marketplace.AdapterRegistry = (*Registry)(nil)

// NewRegistry creates a registry backed by the given config repository
func NewRegistry(configs marketplace.ConfigRepository, logger *zap.Logger) *Registry {
	return &Registry{configs: configs, logger: logger}
}

// ResolveConfig returns the active configuration for the marketplace
func (r *Registry) ResolveConfig(ctx context.Context, mp marketplace.Marketplace) (*marketplace.Config, error) {
	if !mp.IsValid() {
		return nil, marketplace.ErrUnsupportedMarketplace
	}
	return r.configs.FindActive(ctx, mp)
}

// AdapterFor constructs the adapter for the config's marketplace
func (r *Registry) AdapterFor(cfg *marketplace.Config) (marketplace.OrderAdapter, error) {
	if err := cfg.Credentials.Validate(cfg.Marketplace); err != nil {
		return nil, err
	}
	switch cfg.Marketplace {
	case marketplace.MarketplaceMeesho:
		return NewMeeshoAdapter(cfg.Credentials.Meesho, r.logger)
	case marketplace.MarketplaceAmazon:
		return NewAmazonAdapter(cfg.Credentials.Amazon, r.logger)
	case marketplace.MarketplaceFlipkart:
		return NewFlipkartAdapter(cfg.Credentials.Flipkart, r.logger)
	default:
		return nil, marketplace.ErrUnsupportedMarketplace
	}
}
