package marketplace

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// MeeshoCredentials holds the API credentials for the Meesho supplier platform
type MeeshoCredentials struct {
	MerchantID         string `json:"merchant_id"`
	SupplierIdentifier string `json:"supplier_identifier"`
	Secret             string `json:"secret"`
	APIURL             string `json:"api_url"`
}

// AmazonCredentials holds the API credentials for Amazon SP-API
type AmazonCredentials struct {
	AccessToken   string `json:"access_token"`
	MarketplaceID string `json:"marketplace_id"`
	APIURL        string `json:"api_url"`
}

// FlipkartCredentials holds the API credentials for the Flipkart seller platform
type FlipkartCredentials struct {
	ApplicationID     string `json:"application_id"`
	ApplicationSecret string `json:"application_secret"`
	APIURL            string `json:"api_url"`
}

// Credentials is a tagged union of per-marketplace credential shapes. Exactly
// one field matching the owning config's marketplace must be set; the others
// stay nil. This replaces the single loosely-typed credential bag the schema
// would otherwise need, so Amazon code can never read a Meesho-only field.
type Credentials struct {
	Meesho   *MeeshoCredentials   `json:"meesho,omitempty"`
	Amazon   *AmazonCredentials   `json:"amazon,omitempty"`
	Flipkart *FlipkartCredentials `json:"flipkart,omitempty"`
}

// Validate checks that the credentials set matches the given marketplace and
// that no foreign credential variant is populated
func (c Credentials) Validate(mp Marketplace) error {
	var set, foreign bool
	switch mp {
	case MarketplaceMeesho:
		set = c.Meesho != nil
		foreign = c.Amazon != nil || c.Flipkart != nil
	case MarketplaceAmazon:
		set = c.Amazon != nil
		foreign = c.Meesho != nil || c.Flipkart != nil
	case MarketplaceFlipkart:
		set = c.Flipkart != nil
		foreign = c.Meesho != nil || c.Amazon != nil
	default:
		return ErrUnsupportedMarketplace
	}
	if !set {
		return ErrCredentialsMissing
	}
	if foreign {
		return ErrCredentialsMismatch
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sync and Mapping Settings
// ---------------------------------------------------------------------------

// SyncSettings controls automatic order synchronization for one marketplace
type SyncSettings struct {
	// AutoSync enables the background sync scheduler for this marketplace
	AutoSync bool
	// IntervalMinutes is how often auto-sync runs
	IntervalMinutes int
	// LastSyncAt is when the last sync cycle completed
	LastSyncAt *time.Time
	// SyncOrdersFrom bounds how far back auto-sync fetches orders
	SyncOrdersFrom time.Time
}

// MappingSettings controls how marketplace entities map to local records
type MappingSettings struct {
	AutoMapProducts      bool
	DefaultCustomerGroup string
	DefaultPaymentMethod string
}

// LastError records the most recent sync failure for a marketplace
type LastError struct {
	Message   string
	Timestamp time.Time
}

// ---------------------------------------------------------------------------
// Config Entity
// ---------------------------------------------------------------------------

// Config is the stored configuration of one marketplace integration. There is
// at most one Config per marketplace identifier.
type Config struct {
	ID          uuid.UUID
	Marketplace Marketplace
	IsActive    bool
	Credentials Credentials
	Sync        SyncSettings
	Mapping     MappingSettings
	Status      ConfigStatus
	LastError   *LastError
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewConfig creates a config for the given marketplace with defaults matching
// a freshly connected, not yet activated integration
func NewConfig(mp Marketplace) (*Config, error) {
	if !mp.IsValid() {
		return nil, ErrUnsupportedMarketplace
	}
	now := time.Now()
	return &Config{
		ID:          uuid.New(),
		Marketplace: mp,
		IsActive:    false,
		Sync: SyncSettings{
			AutoSync:        true,
			IntervalMinutes: 30,
			SyncOrdersFrom:  now.AddDate(0, 0, -30),
		},
		Mapping: MappingSettings{
			AutoMapProducts:      true,
			DefaultPaymentMethod: "online",
		},
		Status:    ConfigStatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the config's marketplace and credential consistency
func (c *Config) Validate() error {
	if !c.Marketplace.IsValid() {
		return ErrUnsupportedMarketplace
	}
	if c.IsActive {
		if err := c.Credentials.Validate(c.Marketplace); err != nil {
			return err
		}
	}
	return nil
}

// RecordSyncSuccess stamps a completed sync cycle and clears any error state
func (c *Config) RecordSyncSuccess(at time.Time) {
	c.Sync.LastSyncAt = &at
	c.Status = ConfigStatusActive
	c.LastError = nil
	c.UpdatedAt = time.Now()
}

// RecordSyncError records a failed sync cycle
func (c *Config) RecordSyncError(msg string, at time.Time) {
	c.Status = ConfigStatusError
	c.LastError = &LastError{Message: msg, Timestamp: at}
	c.UpdatedAt = time.Now()
}

// SyncDue returns true if auto-sync should run now, given the configured
// interval and the time of the last completed cycle
func (c *Config) SyncDue(now time.Time) bool {
	if !c.IsActive || !c.Sync.AutoSync {
		return false
	}
	if c.Sync.LastSyncAt == nil {
		return true
	}
	interval := time.Duration(c.Sync.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return now.Sub(*c.Sync.LastSyncAt) >= interval
}
