package marketplace

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// AnalyticsSummary aggregates the per-marketplace rows into overall totals
type AnalyticsSummary struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// Analytics is the full analytics payload: one row per marketplace plus the
// cross-marketplace summary
type Analytics struct {
	ByMarketplace []marketplace.MarketplaceStats `json:"by_marketplace"`
	Summary       AnalyticsSummary               `json:"summary"`
}

// AnalyticsService computes revenue and fee aggregations over synced orders.
// Cancelled and returned orders are excluded.
type AnalyticsService struct {
	orders marketplace.OrderRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(orders marketplace.OrderRepository) *AnalyticsService {
	return &AnalyticsService{orders: orders}
}

// GetAnalytics computes per-marketplace statistics over the optional date range
func (s *AnalyticsService) GetAnalytics(ctx context.Context, from, to *time.Time) (*Analytics, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, marketplace.ErrInvalidDateRange
	}

	stats, err := s.orders.Aggregate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		ByMarketplace: stats,
		Summary: AnalyticsSummary{
			TotalRevenue:  decimal.Zero,
			TotalFees:     decimal.Zero,
			NetRevenue:    decimal.Zero,
			AvgOrderValue: decimal.Zero,
		},
	}
	for _, row := range stats {
		analytics.Summary.TotalOrders += row.TotalOrders
		analytics.Summary.TotalRevenue = analytics.Summary.TotalRevenue.Add(row.TotalRevenue)
		analytics.Summary.TotalFees = analytics.Summary.TotalFees.Add(row.TotalFees)
		analytics.Summary.NetRevenue = analytics.Summary.NetRevenue.Add(row.NetRevenue)
	}
	if analytics.Summary.TotalOrders > 0 {
		analytics.Summary.AvgOrderValue = analytics.Summary.TotalRevenue.
			Div(decimal.NewFromInt(analytics.Summary.TotalOrders)).Round(2)
	}

	return analytics, nil
}
