package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence/models"
)

// GormMarketplaceOrderRepository implements marketplace.OrderRepository using GORM
type GormMarketplaceOrderRepository struct {
	db *gorm.DB
}

var _ marketplace.OrderRepository = (*GormMarketplaceOrderRepository)(nil)

// NewGormMarketplaceOrderRepository creates a new GormMarketplaceOrderRepository
func NewGormMarketplaceOrderRepository(db *gorm.DB) *GormMarketplaceOrderRepository {
	return &GormMarketplaceOrderRepository{db: db}
}

// FindByID finds an order by its local ID
func (r *GormMarketplaceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Order, error) {
	var model models.MarketplaceOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an order by its idempotency key
func (r *GormMarketplaceOrderRepository) FindByExternalID(ctx context.Context, mp marketplace.Marketplace, externalOrderID string) (*marketplace.Order, error) {
	var model models.MarketplaceOrderModel
	if err := r.db.WithContext(ctx).
		Where("marketplace = ? AND external_order_id = ?", mp, externalOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter, newest order date first
func (r *GormMarketplaceOrderRepository) FindAll(ctx context.Context, filter marketplace.OrderFilter) ([]marketplace.Order, error) {
	var orderModels []models.MarketplaceOrderModel
	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("order_date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]marketplace.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormMarketplaceOrderRepository) Count(ctx context.Context, filter marketplace.OrderFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MarketplaceOrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormMarketplaceOrderRepository) Save(ctx context.Context, order *marketplace.Order) error {
	model := models.MarketplaceOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// Aggregate computes per-marketplace statistics over the optional date range
func (r *GormMarketplaceOrderRepository) Aggregate(ctx context.Context, from, to *time.Time) ([]marketplace.MarketplaceStats, error) {
	type row struct {
		Marketplace  marketplace.Marketplace
		TotalOrders  int64
		TotalRevenue decimal.Decimal
		NetRevenue   decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Model(&models.MarketplaceOrderModel{}).
		Select("marketplace, COUNT(*) AS total_orders, COALESCE(SUM(total_amount), 0) AS total_revenue, COALESCE(SUM(net_amount), 0) AS net_revenue").
		Group("marketplace").
		Order("marketplace ASC")
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]marketplace.MarketplaceStats, len(rows))
	for i, rw := range rows {
		avg := decimal.Zero
		if rw.TotalOrders > 0 {
			avg = rw.TotalRevenue.Div(decimal.NewFromInt(rw.TotalOrders)).Round(2)
		}
		stats[i] = marketplace.MarketplaceStats{
			Marketplace:   rw.Marketplace,
			TotalOrders:   rw.TotalOrders,
			TotalRevenue:  rw.TotalRevenue,
			TotalFees:     rw.TotalRevenue.Sub(rw.NetRevenue),
			NetRevenue:    rw.NetRevenue,
			AvgOrderValue: avg,
		}
	}
	return stats, nil
}

func (r *GormMarketplaceOrderRepository) applyFilter(query *gorm.DB, filter marketplace.OrderFilter) *gorm.DB {
	if filter.Marketplace != nil {
		query = query.Where("marketplace = ?", *filter.Marketplace)
	}
	if filter.Status != nil {
		query = query.Where("order_status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("order_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("order_date <= ?", *filter.ToDate)
	}
	return query
}
