package marketplace

import (
	"context"

	"github.com/google/uuid"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// OrderQueryService serves read-only views over synced marketplace orders
type OrderQueryService struct {
	orders marketplace.OrderRepository
}

// NewOrderQueryService creates a new OrderQueryService
func NewOrderQueryService(orders marketplace.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// ListOrders returns a paginated page of orders matching the filter
func (s *OrderQueryService) ListOrders(ctx context.Context, filter marketplace.OrderFilter) (*shared.Paginated[marketplace.Order], error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, marketplace.ErrInvalidDateRange
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	result := shared.NewPaginated(orders, total, page, filter.Limit())
	return &result, nil
}

// GetOrder returns a single order by local ID
func (s *OrderQueryService) GetOrder(ctx context.Context, id uuid.UUID) (*marketplace.Order, error) {
	return s.orders.FindByID(ctx, id)
}
