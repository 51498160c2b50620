package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductSource records where a product record originated
type ProductSource string

const (
	ProductSourceManual      ProductSource = "manual"
	ProductSourceMarketplace ProductSource = "marketplace"
)

// Product represents a sellable item in the catalog. SKU is unique across
// the catalog and is the primary matching key for marketplace line items.
type Product struct {
	shared.BaseEntity
	SKU          string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Description  string          `gorm:"type:text"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock        int             `gorm:"not null;default:0"`
	HSNCode      string          `gorm:"type:varchar(20)"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Source       ProductSource   `gorm:"type:varchar(20);not null;default:'manual'"`
	// NeedsStockReview flags products auto-created from marketplace orders.
	// They are created with zero stock and the owner has to reconcile the
	// real quantity before relying on stock reports.
	NeedsStockReview bool          `gorm:"not null;default:false"`
	Status           ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active catalog product
func NewProduct(sku, name string, sellingPrice decimal.Decimal) (*Product, error) {
	sku = NormalizeSKU(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "product SKU is required")
	}
	if len(sku) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "product SKU cannot exceed 100 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "product name is required")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "selling price cannot be negative")
	}
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		SKU:          sku,
		Name:         name,
		Unit:         "pcs",
		SellingPrice: sellingPrice,
		CostPrice:    decimal.Zero,
		TaxRate:      decimal.Zero,
		Source:       ProductSourceManual,
		Status:       ProductStatusActive,
	}, nil
}

// NewMarketplaceProduct creates a product auto-mapped from a marketplace line
// item. The item's own SKU wins when present; otherwise one is synthesized
// from the marketplace name and the external product ID. Stock starts at zero
// and the record is flagged for review.
func NewMarketplaceProduct(marketplaceName, externalProductID, itemSKU, name string, sellingPrice decimal.Decimal) (*Product, error) {
	sku := NormalizeSKU(itemSKU)
	if sku == "" {
		sku = SynthesizeSKU(marketplaceName, externalProductID)
	}
	product, err := NewProduct(sku, name, sellingPrice)
	if err != nil {
		return nil, err
	}
	product.Source = ProductSourceMarketplace
	product.NeedsStockReview = true
	return product, nil
}

// NormalizeSKU uppercases and trims a SKU so lookups are case-insensitive
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// SynthesizeSKU builds a deterministic SKU for a marketplace product that has
// no seller SKU of its own
func SynthesizeSKU(marketplaceName, externalProductID string) string {
	return NormalizeSKU(fmt.Sprintf("%s-%s",
		strings.TrimSpace(marketplaceName), strings.TrimSpace(externalProductID)))
}

// AdjustStock changes the stock level by delta, refusing to go negative
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "stock cannot go negative")
	}
	p.Stock += delta
	p.Touch()
	return nil
}

// MarkStockReviewed clears the review flag after the owner confirms stock
func (p *Product) MarkStockReviewed() {
	p.NeedsStockReview = false
	p.Touch()
}

// Discontinue marks the product as no longer sold
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.Touch()
}
