package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

func TestGormMarketplaceConfigRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMarketplaceConfigRepository(db)
	ctx := context.Background()

	cfg, err := marketplace.NewConfig(marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	cfg.IsActive = true
	cfg.Credentials.Meesho = &marketplace.MeeshoCredentials{
		MerchantID: "m1", SupplierIdentifier: "s1", Secret: "sec", APIURL: "https://example.test",
	}
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindByMarketplace(ctx, marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	assert.True(t, found.IsActive)
	require.NotNil(t, found.Credentials.Meesho)
	assert.Equal(t, "m1", found.Credentials.Meesho.MerchantID)
	assert.Nil(t, found.Credentials.Amazon)
	assert.True(t, found.Sync.AutoSync)
}

func TestGormMarketplaceConfigRepository_UpsertByMarketplace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMarketplaceConfigRepository(db)
	ctx := context.Background()

	cfg, err := marketplace.NewConfig(marketplace.MarketplaceFlipkart)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cfg))

	// second save for the same marketplace updates the single row
	updated, err := marketplace.NewConfig(marketplace.MarketplaceFlipkart)
	require.NoError(t, err)
	updated.IsActive = true
	updated.Credentials.Flipkart = &marketplace.FlipkartCredentials{
		ApplicationID: "app", ApplicationSecret: "sec", APIURL: "https://example.test",
	}
	require.NoError(t, repo.Save(ctx, updated))

	var count int64
	require.NoError(t, db.Table("marketplace_configs").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByMarketplace(ctx, marketplace.MarketplaceFlipkart)
	require.NoError(t, err)
	assert.True(t, found.IsActive)
	require.NotNil(t, found.Credentials.Flipkart)
}

func TestGormMarketplaceConfigRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMarketplaceConfigRepository(db)
	ctx := context.Background()

	cfg, err := marketplace.NewConfig(marketplace.MarketplaceAmazon)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cfg))

	_, err = repo.FindActive(ctx, marketplace.MarketplaceAmazon)
	assert.ErrorIs(t, err, marketplace.ErrConfigNotFoundOrInactive)

	cfg.IsActive = true
	cfg.Credentials.Amazon = &marketplace.AmazonCredentials{AccessToken: "tok", MarketplaceID: "A21"}
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindActive(ctx, marketplace.MarketplaceAmazon)
	require.NoError(t, err)
	assert.True(t, found.IsActive)

	_, err = repo.FindActive(ctx, marketplace.MarketplaceMeesho)
	assert.ErrorIs(t, err, marketplace.ErrConfigNotFoundOrInactive)
}

func TestGormMarketplaceConfigRepository_SyncOutcomeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMarketplaceConfigRepository(db)
	ctx := context.Background()

	cfg, err := marketplace.NewConfig(marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	cfg.RecordSyncError("HTTP 502 from upstream", time.Now())
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindByMarketplace(ctx, marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	assert.Equal(t, marketplace.ConfigStatusError, found.Status)
	require.NotNil(t, found.LastError)
	assert.Equal(t, "HTTP 502 from upstream", found.LastError.Message)

	found.RecordSyncSuccess(time.Now())
	require.NoError(t, repo.Save(ctx, found))

	again, err := repo.FindByMarketplace(ctx, marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	assert.Equal(t, marketplace.ConfigStatusActive, again.Status)
	assert.Nil(t, again.LastError)
	assert.NotNil(t, again.Sync.LastSyncAt)
}
