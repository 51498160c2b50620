package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence/models"
)

// GormMarketplaceConfigRepository implements marketplace.ConfigRepository using GORM
type GormMarketplaceConfigRepository struct {
	db *gorm.DB
}

var _ marketplace.ConfigRepository = (*GormMarketplaceConfigRepository)(nil)

// NewGormMarketplaceConfigRepository creates a new GormMarketplaceConfigRepository
func NewGormMarketplaceConfigRepository(db *gorm.DB) *GormMarketplaceConfigRepository {
	return &GormMarketplaceConfigRepository{db: db}
}

// FindAll returns every stored configuration
func (r *GormMarketplaceConfigRepository) FindAll(ctx context.Context) ([]marketplace.Config, error) {
	var configModels []models.MarketplaceConfigModel
	if err := r.db.WithContext(ctx).Order("marketplace ASC").Find(&configModels).Error; err != nil {
		return nil, err
	}
	configs := make([]marketplace.Config, len(configModels))
	for i := range configModels {
		configs[i] = *configModels[i].ToDomain()
	}
	return configs, nil
}

// FindByMarketplace returns the configuration for the marketplace, active or not
func (r *GormMarketplaceConfigRepository) FindByMarketplace(ctx context.Context, mp marketplace.Marketplace) (*marketplace.Config, error) {
	var model models.MarketplaceConfigModel
	if err := r.db.WithContext(ctx).Where("marketplace = ?", mp).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrConfigNotFoundOrInactive
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns the configuration only if it exists and is active
func (r *GormMarketplaceConfigRepository) FindActive(ctx context.Context, mp marketplace.Marketplace) (*marketplace.Config, error) {
	var model models.MarketplaceConfigModel
	if err := r.db.WithContext(ctx).
		Where("marketplace = ? AND is_active = ?", mp, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrConfigNotFoundOrInactive
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a configuration, upserting on the marketplace key
func (r *GormMarketplaceConfigRepository) Save(ctx context.Context, cfg *marketplace.Config) error {
	model := models.MarketplaceConfigModelFromDomain(cfg)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "marketplace"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_active", "credentials", "sync_settings", "mapping_settings",
				"status", "last_error", "updated_at",
			}),
		}).
		Create(model).Error
}
