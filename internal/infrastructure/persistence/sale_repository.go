package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
	"github.com/rathi101/ankisho-billing-software/internal/domain/trade"
)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByMarketplaceOrderID finds the sale converted from the given marketplace order
func (r *GormSaleRepository) FindByMarketplaceOrderID(ctx context.Context, orderID uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("meta_marketplace_order_id = ?", orderID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.db.WithContext(ctx).
		Preload("Items").
		Order("sale_date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if filter.Search != "" {
		query = query.Where("invoice_number LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// NextInvoiceSequence returns the next invoice sequence number for the date.
// Sequences restart at 1 each day and advance from the highest number already
// minted, so a conversion retried after an invoice collision picks up a fresh
// number. The unique index on invoice_number remains the final arbiter when
// two transactions still race to the same sequence.
func (r *GormSaleRepository) NextInvoiceSequence(ctx context.Context, date time.Time) (int, error) {
	prefix := trade.InvoicePrefix(date)

	var last struct {
		InvoiceNumber string
	}
	if err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Select("invoice_number").
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Scan(&last).Error; err != nil {
		return 0, err
	}
	if last.InvoiceNumber == "" {
		return 1, nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(last.InvoiceNumber, prefix))
	if err != nil {
		return 0, fmt.Errorf("malformed invoice number %q: %w", last.InvoiceNumber, err)
	}
	return seq + 1, nil
}

// Save creates or updates a sale and its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}
