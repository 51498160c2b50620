package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// SalePaymentStatus represents how much of a sale has been paid
type SalePaymentStatus string

const (
	SalePaymentPending SalePaymentStatus = "pending"
	SalePaymentPartial SalePaymentStatus = "partial"
	SalePaymentPaid    SalePaymentStatus = "paid"
)

// SaleSource records what created a sale
type SaleSource string

const (
	SaleSourceCounter     SaleSource = "counter"
	SaleSourceMarketplace SaleSource = "marketplace"
)

// SaleItem represents one line of a sale
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(100)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// NewSaleItem creates a sale line for the given product
func NewSaleItem(saleID, productID uuid.UUID, productName, sku string, quantity int, unitPrice, totalPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "quantity must be positive")
	}
	if unitPrice.IsNegative() || totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "prices cannot be negative")
	}
	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		CreatedAt:   time.Now(),
	}, nil
}

// SaleMetadata links a sale back to the record that produced it. For
// marketplace conversions MarketplaceOrderID carries the local marketplace
// order's ID; the unique index on it is the database-level guarantee that an
// order converts to at most one sale.
type SaleMetadata struct {
	Source             SaleSource `gorm:"type:varchar(20);not null;default:'counter'"`
	Marketplace        string     `gorm:"type:varchar(20)"`
	MarketplaceOrderID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ExternalOrderID    string     `gorm:"type:varchar(100)"`
}

// Sale is a completed or pending sale with its invoice identity
type Sale struct {
	shared.BaseEntity
	InvoiceNumber string            `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	SaleDate      time.Time         `gorm:"not null;index"`
	Items         []SaleItem        `gorm:"foreignKey:SaleID"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string            `gorm:"type:varchar(30);not null;default:'cash'"`
	PaymentStatus SalePaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Status        SaleStatus        `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes         string            `gorm:"type:text"`
	Metadata      SaleMetadata      `gorm:"embedded;embeddedPrefix:meta_"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a pending sale for the given customer
func NewSale(invoiceNumber string, customerID uuid.UUID, saleDate time.Time) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "invoice number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "customer ID cannot be empty")
	}
	return &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		InvoiceNumber: invoiceNumber,
		CustomerID:    customerID,
		SaleDate:      saleDate,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PaymentMethod: "cash",
		PaymentStatus: SalePaymentPending,
		Status:        SaleStatusPending,
	}, nil
}

// InvoicePrefix is the shared day prefix of all invoice numbers minted on the
// given date. Zero-padded sequences sort lexically under this prefix.
func InvoicePrefix(date time.Time) string {
	return fmt.Sprintf("SAL-%s-", date.Format("20060102"))
}

// FormatInvoiceNumber renders an invoice number from its date and sequence
func FormatInvoiceNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("%s%04d", InvoicePrefix(date), sequence)
}

// AddItem appends a line to the sale and adds its total to the sale amount
func (s *Sale) AddItem(item *SaleItem) {
	item.SaleID = s.ID
	s.Items = append(s.Items, *item)
	s.TotalAmount = s.TotalAmount.Add(item.TotalPrice)
	s.Touch()
}

// RecordPayment records an amount received against the sale and derives the
// payment status from the running total
func (s *Sale) RecordPayment(amount decimal.Decimal, method string) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_PAYMENT", "payment amount cannot be negative")
	}
	s.PaidAmount = s.PaidAmount.Add(amount)
	if method != "" {
		s.PaymentMethod = method
	}
	switch {
	case s.PaidAmount.GreaterThanOrEqual(s.TotalAmount) && s.TotalAmount.IsPositive():
		s.PaymentStatus = SalePaymentPaid
	case s.PaidAmount.IsPositive():
		s.PaymentStatus = SalePaymentPartial
	default:
		s.PaymentStatus = SalePaymentPending
	}
	s.Touch()
	return nil
}

// Complete marks the sale as fulfilled
func (s *Sale) Complete() {
	s.Status = SaleStatusCompleted
	s.Touch()
}
