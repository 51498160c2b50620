package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Validate(t *testing.T) {
	meesho := &MeeshoCredentials{MerchantID: "m1", SupplierIdentifier: "s1", Secret: "sec", APIURL: "https://supplier.meesho.com"}
	amazon := &AmazonCredentials{AccessToken: "tok", MarketplaceID: "A21TJRUUN4KGV", APIURL: "https://sellingpartnerapi-eu.amazon.com"}
	flipkart := &FlipkartCredentials{ApplicationID: "app", ApplicationSecret: "sec", APIURL: "https://api.flipkart.net/sellers"}

	tests := []struct {
		name    string
		creds   Credentials
		mp      Marketplace
		wantErr error
	}{
		{"meesho ok", Credentials{Meesho: meesho}, MarketplaceMeesho, nil},
		{"amazon ok", Credentials{Amazon: amazon}, MarketplaceAmazon, nil},
		{"flipkart ok", Credentials{Flipkart: flipkart}, MarketplaceFlipkart, nil},
		{"missing", Credentials{}, MarketplaceMeesho, ErrCredentialsMissing},
		{"foreign variant", Credentials{Meesho: meesho, Amazon: amazon}, MarketplaceMeesho, ErrCredentialsMismatch},
		{"wrong variant only", Credentials{Amazon: amazon}, MarketplaceFlipkart, ErrCredentialsMissing},
		{"unknown marketplace", Credentials{Meesho: meesho}, Marketplace("ebay"), ErrUnsupportedMarketplace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate(tt.mp)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(MarketplaceMeesho)
	require.NoError(t, err)
	assert.False(t, cfg.IsActive)
	assert.Equal(t, ConfigStatusInactive, cfg.Status)
	assert.True(t, cfg.Sync.AutoSync)
	assert.Equal(t, 30, cfg.Sync.IntervalMinutes)
	assert.True(t, cfg.Mapping.AutoMapProducts)
	assert.Equal(t, "online", cfg.Mapping.DefaultPaymentMethod)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), cfg.Sync.SyncOrdersFrom, time.Minute)

	_, err = NewConfig(Marketplace("ebay"))
	assert.ErrorIs(t, err, ErrUnsupportedMarketplace)
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := NewConfig(MarketplaceAmazon)
	require.NoError(t, err)

	// inactive configs may have no credentials yet
	assert.NoError(t, cfg.Validate())

	cfg.IsActive = true
	assert.ErrorIs(t, cfg.Validate(), ErrCredentialsMissing)

	cfg.Credentials.Amazon = &AmazonCredentials{AccessToken: "tok", MarketplaceID: "A21TJRUUN4KGV"}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_RecordSyncOutcome(t *testing.T) {
	cfg, err := NewConfig(MarketplaceFlipkart)
	require.NoError(t, err)

	at := time.Now()
	cfg.RecordSyncError("upstream returned 500", at)
	assert.Equal(t, ConfigStatusError, cfg.Status)
	require.NotNil(t, cfg.LastError)
	assert.Equal(t, "upstream returned 500", cfg.LastError.Message)

	cfg.RecordSyncSuccess(at)
	assert.Equal(t, ConfigStatusActive, cfg.Status)
	assert.Nil(t, cfg.LastError)
	require.NotNil(t, cfg.Sync.LastSyncAt)
	assert.Equal(t, at, *cfg.Sync.LastSyncAt)
}

func TestConfig_SyncDue(t *testing.T) {
	now := time.Now()
	base := func() *Config {
		cfg, err := NewConfig(MarketplaceMeesho)
		require.NoError(t, err)
		cfg.IsActive = true
		return cfg
	}

	t.Run("never synced", func(t *testing.T) {
		assert.True(t, base().SyncDue(now))
	})

	t.Run("interval not elapsed", func(t *testing.T) {
		cfg := base()
		last := now.Add(-10 * time.Minute)
		cfg.Sync.LastSyncAt = &last
		assert.False(t, cfg.SyncDue(now))
	})

	t.Run("interval elapsed", func(t *testing.T) {
		cfg := base()
		last := now.Add(-31 * time.Minute)
		cfg.Sync.LastSyncAt = &last
		assert.True(t, cfg.SyncDue(now))
	})

	t.Run("auto-sync disabled", func(t *testing.T) {
		cfg := base()
		cfg.Sync.AutoSync = false
		assert.False(t, cfg.SyncDue(now))
	})

	t.Run("inactive config", func(t *testing.T) {
		cfg := base()
		cfg.IsActive = false
		assert.False(t, cfg.SyncDue(now))
	})

	t.Run("zero interval falls back to default", func(t *testing.T) {
		cfg := base()
		cfg.Sync.IntervalMinutes = 0
		last := now.Add(-31 * time.Minute)
		cfg.Sync.LastSyncAt = &last
		assert.True(t, cfg.SyncDue(now))
	})
}
