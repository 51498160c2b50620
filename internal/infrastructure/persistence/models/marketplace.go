package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// MarketplaceOrderModel is the persistence model for the canonical
// marketplace order. Items, the customer snapshot, fees and shipping are
// stored as JSON columns; the queryable dimensions (marketplace, external
// order ID, dates, statuses, amounts) stay relational.
type MarketplaceOrderModel struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	Marketplace     marketplace.Marketplace   `gorm:"type:varchar(20);not null;uniqueIndex:idx_mp_order_external,priority:1;index:idx_mp_order_status,priority:1"`
	ExternalOrderID string                    `gorm:"type:varchar(100);not null;uniqueIndex:idx_mp_order_external,priority:2"`
	OrderDate       time.Time                 `gorm:"index"`
	CustomerJSON    string                    `gorm:"type:jsonb;column:customer"`
	ItemsJSON       string                    `gorm:"type:jsonb;column:items"`
	TotalAmount     decimal.Decimal           `gorm:"type:decimal(12,2);not null"`
	FeesJSON        string                    `gorm:"type:jsonb;column:fees"`
	NetAmount       decimal.Decimal           `gorm:"type:decimal(12,2);not null"`
	OrderStatus     marketplace.OrderStatus   `gorm:"type:varchar(20);not null;index:idx_mp_order_status,priority:2"`
	PaymentStatus   marketplace.PaymentStatus `gorm:"type:varchar(20);not null"`
	SyncStatus      marketplace.SyncStatus    `gorm:"type:varchar(20);not null"`
	LastSyncAt      time.Time                 `gorm:"not null"`
	ShippingJSON    string                    `gorm:"type:jsonb;column:shipping"`
	RawData         string                    `gorm:"type:jsonb"`
	CreatedAt       time.Time                 `gorm:"not null"`
	UpdatedAt       time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MarketplaceOrderModel) TableName() string {
	return "marketplace_orders"
}

// ToDomain converts the persistence model to a domain Order entity
func (m *MarketplaceOrderModel) ToDomain() *marketplace.Order {
	order := &marketplace.Order{
		ID:              m.ID,
		Marketplace:     m.Marketplace,
		ExternalOrderID: m.ExternalOrderID,
		OrderDate:       m.OrderDate,
		Items:           make([]marketplace.OrderItem, 0),
		TotalAmount:     m.TotalAmount,
		NetAmount:       m.NetAmount,
		OrderStatus:     m.OrderStatus,
		PaymentStatus:   m.PaymentStatus,
		SyncStatus:      m.SyncStatus,
		LastSyncAt:      m.LastSyncAt,
		RawData:         m.RawData,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if m.CustomerJSON != "" {
		_ = json.Unmarshal([]byte(m.CustomerJSON), &order.Customer)
	}
	if m.ItemsJSON != "" {
		var items []marketplace.OrderItem
		if err := json.Unmarshal([]byte(m.ItemsJSON), &items); err == nil {
			order.Items = items
		}
	}
	if m.FeesJSON != "" {
		_ = json.Unmarshal([]byte(m.FeesJSON), &order.Fees)
	}
	if m.ShippingJSON != "" {
		_ = json.Unmarshal([]byte(m.ShippingJSON), &order.Shipping)
	}

	return order
}

// FromDomain populates the persistence model from a domain Order entity
func (m *MarketplaceOrderModel) FromDomain(o *marketplace.Order) {
	m.ID = o.ID
	m.Marketplace = o.Marketplace
	m.ExternalOrderID = o.ExternalOrderID
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.NetAmount = o.NetAmount
	m.OrderStatus = o.OrderStatus
	m.PaymentStatus = o.PaymentStatus
	m.SyncStatus = o.SyncStatus
	m.LastSyncAt = o.LastSyncAt
	m.RawData = o.RawData
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	m.CustomerJSON = marshalOrEmptyObject(o.Customer)
	m.FeesJSON = marshalOrEmptyObject(o.Fees)
	m.ShippingJSON = marshalOrEmptyObject(o.Shipping)
	if len(o.Items) > 0 {
		if b, err := json.Marshal(o.Items); err == nil {
			m.ItemsJSON = string(b)
		}
	} else {
		m.ItemsJSON = "[]"
	}
}

// MarketplaceOrderModelFromDomain creates a persistence model from a domain Order
func MarketplaceOrderModelFromDomain(o *marketplace.Order) *MarketplaceOrderModel {
	m := &MarketplaceOrderModel{}
	m.FromDomain(o)
	return m
}

// MarketplaceConfigModel is the persistence model for a marketplace
// configuration. Credentials and settings are JSON columns; there is exactly
// one row per marketplace.
type MarketplaceConfigModel struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Marketplace     marketplace.Marketplace  `gorm:"type:varchar(20);not null;uniqueIndex"`
	IsActive        bool                     `gorm:"not null;default:false"`
	CredentialsJSON string                   `gorm:"type:jsonb;column:credentials"`
	SyncJSON        string                   `gorm:"type:jsonb;column:sync_settings"`
	MappingJSON     string                   `gorm:"type:jsonb;column:mapping_settings"`
	Status          marketplace.ConfigStatus `gorm:"type:varchar(20);not null;default:'inactive'"`
	LastErrorJSON   string                   `gorm:"type:jsonb;column:last_error"`
	CreatedAt       time.Time                `gorm:"not null"`
	UpdatedAt       time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MarketplaceConfigModel) TableName() string {
	return "marketplace_configs"
}

// ToDomain converts the persistence model to a domain Config entity
func (m *MarketplaceConfigModel) ToDomain() *marketplace.Config {
	cfg := &marketplace.Config{
		ID:          m.ID,
		Marketplace: m.Marketplace,
		IsActive:    m.IsActive,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.CredentialsJSON != "" {
		_ = json.Unmarshal([]byte(m.CredentialsJSON), &cfg.Credentials)
	}
	if m.SyncJSON != "" {
		_ = json.Unmarshal([]byte(m.SyncJSON), &cfg.Sync)
	}
	if m.MappingJSON != "" {
		_ = json.Unmarshal([]byte(m.MappingJSON), &cfg.Mapping)
	}
	if m.LastErrorJSON != "" && m.LastErrorJSON != "null" {
		var lastErr marketplace.LastError
		if err := json.Unmarshal([]byte(m.LastErrorJSON), &lastErr); err == nil {
			cfg.LastError = &lastErr
		}
	}

	return cfg
}

// FromDomain populates the persistence model from a domain Config entity
func (m *MarketplaceConfigModel) FromDomain(cfg *marketplace.Config) {
	m.ID = cfg.ID
	m.Marketplace = cfg.Marketplace
	m.IsActive = cfg.IsActive
	m.Status = cfg.Status
	m.CreatedAt = cfg.CreatedAt
	m.UpdatedAt = cfg.UpdatedAt

	m.CredentialsJSON = marshalOrEmptyObject(cfg.Credentials)
	m.SyncJSON = marshalOrEmptyObject(cfg.Sync)
	m.MappingJSON = marshalOrEmptyObject(cfg.Mapping)
	if cfg.LastError != nil {
		m.LastErrorJSON = marshalOrEmptyObject(*cfg.LastError)
	} else {
		m.LastErrorJSON = ""
	}
}

// MarketplaceConfigModelFromDomain creates a persistence model from a domain Config
func MarketplaceConfigModelFromDomain(cfg *marketplace.Config) *MarketplaceConfigModel {
	m := &MarketplaceConfigModel{}
	m.FromDomain(cfg)
	return m
}

func marshalOrEmptyObject(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
