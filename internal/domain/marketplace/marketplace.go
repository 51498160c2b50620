package marketplace

import "errors"

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// Config errors
	ErrConfigNotFoundOrInactive = errors.New("marketplace: configuration not found or inactive")
	ErrUnsupportedMarketplace   = errors.New("marketplace: unsupported marketplace")
	ErrCredentialsMissing       = errors.New("marketplace: credentials missing for marketplace")
	ErrCredentialsMismatch      = errors.New("marketplace: credentials do not match marketplace")

	// Adapter errors
	ErrAPIRequestFailed   = errors.New("marketplace: marketplace API request failed")
	ErrAPIInvalidResponse = errors.New("marketplace: invalid marketplace API response")
	ErrAPITimeout         = errors.New("marketplace: marketplace API request timed out")

	// Order errors
	ErrOrderNotFound        = errors.New("marketplace: order not found")
	ErrOrderMissingID       = errors.New("marketplace: order is missing its external order ID")
	ErrOrderInvalidItem     = errors.New("marketplace: order item has invalid quantity or price")
	ErrInvalidDateRange     = errors.New("marketplace: from date must not be after to date")
	ErrAlreadyConverted     = errors.New("marketplace: order already converted to a sale")
	ErrConversionInProgress = errors.New("marketplace: a conversion for this order is already in progress")
)

// ---------------------------------------------------------------------------
// Marketplace identifier
// ---------------------------------------------------------------------------

// Marketplace identifies an external marketplace integration
type Marketplace string

const (
	// MarketplaceMeesho represents the Meesho supplier platform
	MarketplaceMeesho Marketplace = "meesho"
	// MarketplaceAmazon represents Amazon SP-API
	MarketplaceAmazon Marketplace = "amazon"
	// MarketplaceFlipkart represents the Flipkart seller platform
	MarketplaceFlipkart Marketplace = "flipkart"
)

// IsValid returns true if the marketplace identifier is valid
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceMeesho, MarketplaceAmazon, MarketplaceFlipkart:
		return true
	default:
		return false
	}
}

// String returns the string representation of Marketplace
func (m Marketplace) String() string {
	return string(m)
}

// All returns every supported marketplace identifier
func All() []Marketplace {
	return []Marketplace{MarketplaceMeesho, MarketplaceAmazon, MarketplaceFlipkart}
}

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus is the canonical order status every marketplace vocabulary is
// mapped onto
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPacked    OrderStatus = "packed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

// IsValid returns true if the status is one of the seven canonical values
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusReturned:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// PaymentStatus
// ---------------------------------------------------------------------------

// PaymentStatus is the canonical payment status of a marketplace order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsValid returns true if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncStatus
// ---------------------------------------------------------------------------

// SyncStatus records the outcome of the last synchronization of an order
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPending SyncStatus = "pending"
	SyncStatusFailed  SyncStatus = "failed"
)

// IsValid returns true if the sync status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusSynced, SyncStatusPending, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// ConfigStatus
// ---------------------------------------------------------------------------

// ConfigStatus is the operational state of a marketplace configuration
type ConfigStatus string

const (
	ConfigStatusActive   ConfigStatus = "active"
	ConfigStatusInactive ConfigStatus = "inactive"
	ConfigStatusError    ConfigStatus = "error"
)

// IsValid returns true if the config status is valid
func (s ConfigStatus) IsValid() bool {
	switch s {
	case ConfigStatusActive, ConfigStatusInactive, ConfigStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of ConfigStatus
func (s ConfigStatus) String() string {
	return string(s)
}
