package marketplace

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// CustomerSnapshot is the buyer information embedded in a marketplace order.
// It is a point-in-time copy taken from the marketplace payload, not a
// reference to a local customer record.
type CustomerSnapshot struct {
	Name    string
	Phone   string
	Email   string
	Address Address
}

// Address is a shipping address embedded in an order
type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
	Country string
}

// Fees is the marketplace fee breakdown deducted from an order's total
type Fees struct {
	Commission decimal.Decimal
	Shipping   decimal.Decimal
	Tax        decimal.Decimal
	Other      decimal.Decimal
}

// Total returns the sum of all fee components
func (f Fees) Total() decimal.Decimal {
	return f.Commission.Add(f.Shipping).Add(f.Tax).Add(f.Other)
}

// ShippingInfo holds carrier and tracking details for an order
type ShippingInfo struct {
	Carrier        string
	TrackingNumber string
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// OrderItem is a single line item of a marketplace order
type OrderItem struct {
	// ExternalProductID is the product identifier on the marketplace
	ExternalProductID string
	// ProductName is the product name as listed on the marketplace
	ProductName string
	// SKU is the seller SKU, may be empty for some marketplaces
	SKU string
	// Quantity ordered, always >= 1
	Quantity int
	// UnitPrice is the per-unit selling price, >= 0
	UnitPrice decimal.Decimal
	// TotalPrice is the line total, >= 0
	TotalPrice decimal.Decimal
	// LocalProductID references a locally tracked product once the item has
	// been mapped during conversion; nil until then
	LocalProductID *uuid.UUID
}

// Validate checks the item's quantity and price bounds
func (i *OrderItem) Validate() error {
	if i.Quantity < 1 {
		return fmt.Errorf("%w: quantity %d", ErrOrderInvalidItem, i.Quantity)
	}
	if i.UnitPrice.IsNegative() || i.TotalPrice.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrOrderInvalidItem)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Order Entity
// ---------------------------------------------------------------------------

// Order is the canonical normalized marketplace order. The pair
// (Marketplace, ExternalOrderID) uniquely identifies an order and is the
// idempotency key for sync upserts.
type Order struct {
	ID              uuid.UUID
	Marketplace     Marketplace
	ExternalOrderID string
	OrderDate       time.Time
	Customer        CustomerSnapshot
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	Fees            Fees
	// NetAmount is derived: always TotalAmount - Fees.Total(). It is never
	// set directly; call RecalculateNet after mutating TotalAmount or Fees.
	NetAmount     decimal.Decimal
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	Shipping      ShippingInfo
	SyncStatus    SyncStatus
	LastSyncAt    time.Time
	// RawData is the original marketplace payload, retained verbatim as JSON
	// for audit and debugging. Never parsed after normalization.
	RawData   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder creates a canonical order for the given marketplace and external ID
func NewOrder(mp Marketplace, externalOrderID string) (*Order, error) {
	if !mp.IsValid() {
		return nil, ErrUnsupportedMarketplace
	}
	if strings.TrimSpace(externalOrderID) == "" {
		return nil, ErrOrderMissingID
	}
	now := time.Now()
	return &Order{
		ID:              uuid.New(),
		Marketplace:     mp,
		ExternalOrderID: externalOrderID,
		OrderStatus:     OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		SyncStatus:      SyncStatusSynced,
		LastSyncAt:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Validate checks the order's structural invariants
func (o *Order) Validate() error {
	if !o.Marketplace.IsValid() {
		return ErrUnsupportedMarketplace
	}
	if strings.TrimSpace(o.ExternalOrderID) == "" {
		return ErrOrderMissingID
	}
	if o.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: negative total amount", ErrOrderInvalidItem)
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RecalculateNet recomputes NetAmount from TotalAmount and Fees. Callers must
// invoke it after every mutation of either; the persistence layer stores the
// result but never derives it.
func (o *Order) RecalculateNet() {
	o.NetAmount = o.TotalAmount.Sub(o.Fees.Total())
}

// SetTotals sets the order total and fee breakdown and recomputes NetAmount
func (o *Order) SetTotals(total decimal.Decimal, fees Fees) {
	o.TotalAmount = total
	o.Fees = fees
	o.RecalculateNet()
}

// MergeFrom overwrites this order's marketplace-sourced fields with the values
// from a freshly normalized order, preserving identity, local product links
// and creation time. Used by the sync upsert path when an order is re-synced.
func (o *Order) MergeFrom(fresh *Order) {
	links := make(map[string]*uuid.UUID, len(o.Items))
	for i := range o.Items {
		if o.Items[i].LocalProductID != nil {
			links[o.Items[i].ExternalProductID] = o.Items[i].LocalProductID
		}
	}

	o.OrderDate = fresh.OrderDate
	o.Customer = fresh.Customer
	o.Items = fresh.Items
	o.OrderStatus = fresh.OrderStatus
	o.PaymentStatus = fresh.PaymentStatus
	o.Shipping = fresh.Shipping
	o.RawData = fresh.RawData
	o.SetTotals(fresh.TotalAmount, fresh.Fees)

	// Re-attach product links established by an earlier conversion
	for i := range o.Items {
		if id, ok := links[o.Items[i].ExternalProductID]; ok {
			o.Items[i].LocalProductID = id
		}
	}

	now := time.Now()
	o.SyncStatus = SyncStatusSynced
	o.LastSyncAt = now
	o.UpdatedAt = now
}

// LinkItemProduct attaches a local product ID to the item at index i
func (o *Order) LinkItemProduct(i int, productID uuid.UUID) {
	if i < 0 || i >= len(o.Items) {
		return
	}
	o.Items[i].LocalProductID = &productID
	o.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

// OrderFilter defines filter criteria for listing canonical orders
type OrderFilter struct {
	// Marketplace filters by marketplace (optional)
	Marketplace *Marketplace
	// Status filters by canonical order status (optional)
	Status *OrderStatus
	// FromDate filters orders dated at or after this time (optional)
	FromDate *time.Time
	// ToDate filters orders dated at or before this time (optional)
	ToDate *time.Time
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// Offset returns the row offset implied by the filter's page settings
func (f OrderFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the page size, bounded to a sane default
func (f OrderFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
