package marketplace

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// ConfigInput carries the fields a caller may set when upserting a
// marketplace configuration. Nil sub-structs leave the stored values alone.
type ConfigInput struct {
	IsActive    *bool
	Credentials *marketplace.Credentials
	AutoSync    *bool
	IntervalMin *int
	Mapping     *marketplace.MappingSettings
}

// ConfigService manages marketplace configurations
type ConfigService struct {
	configs marketplace.ConfigRepository
	logger  *zap.Logger
}

// NewConfigService creates a new ConfigService
func NewConfigService(configs marketplace.ConfigRepository, logger *zap.Logger) *ConfigService {
	return &ConfigService{configs: configs, logger: logger}
}

// ListConfigs returns every stored marketplace configuration
func (s *ConfigService) ListConfigs(ctx context.Context) ([]marketplace.Config, error) {
	return s.configs.FindAll(ctx)
}

// GetConfig returns the configuration for one marketplace
func (s *ConfigService) GetConfig(ctx context.Context, mp marketplace.Marketplace) (*marketplace.Config, error) {
	if !mp.IsValid() {
		return nil, marketplace.ErrUnsupportedMarketplace
	}
	return s.configs.FindByMarketplace(ctx, mp)
}

// UpsertConfig creates or updates the configuration for a marketplace,
// validating credentials against the marketplace before persisting
func (s *ConfigService) UpsertConfig(ctx context.Context, mp marketplace.Marketplace, input ConfigInput) (*marketplace.Config, error) {
	if !mp.IsValid() {
		return nil, marketplace.ErrUnsupportedMarketplace
	}

	cfg, err := s.configs.FindByMarketplace(ctx, mp)
	if errors.Is(err, marketplace.ErrConfigNotFoundOrInactive) {
		cfg, err = marketplace.NewConfig(mp)
	}
	if err != nil {
		return nil, err
	}

	if input.Credentials != nil {
		cfg.Credentials = *input.Credentials
	}
	if input.IsActive != nil {
		cfg.IsActive = *input.IsActive
		if cfg.IsActive && cfg.Status == marketplace.ConfigStatusInactive {
			cfg.Status = marketplace.ConfigStatusActive
		}
		if !cfg.IsActive {
			cfg.Status = marketplace.ConfigStatusInactive
		}
	}
	if input.AutoSync != nil {
		cfg.Sync.AutoSync = *input.AutoSync
	}
	if input.IntervalMin != nil && *input.IntervalMin > 0 {
		cfg.Sync.IntervalMinutes = *input.IntervalMin
	}
	if input.Mapping != nil {
		cfg.Mapping = *input.Mapping
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("marketplace configuration saved",
		zap.String("marketplace", mp.String()),
		zap.Bool("active", cfg.IsActive))

	return cfg, nil
}
