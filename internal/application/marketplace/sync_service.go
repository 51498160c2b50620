package marketplace

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// defaultSyncWindow is how far back a sync reaches when no from date is given
const defaultSyncWindow = 7 * 24 * time.Hour

// SyncResult summarizes one sync cycle for a marketplace. Orders holds the
// canonical orders upserted during the cycle, in fetch order.
type SyncResult struct {
	Marketplace     marketplace.Marketplace `json:"marketplace"`
	OrdersFetched   int                     `json:"orders_fetched"`
	OrdersProcessed int                     `json:"orders_processed"`
	OrdersCreated   int                     `json:"orders_created"`
	OrdersUpdated   int                     `json:"orders_updated"`
	OrdersFailed    int                     `json:"orders_failed"`
	From            time.Time               `json:"from"`
	To              time.Time               `json:"to"`
	Orders          []*marketplace.Order    `json:"-"`
}

// SyncService orchestrates order synchronization: it resolves the adapter for
// a marketplace, fetches raw orders, normalizes them and upserts each one
// keyed on (marketplace, external order ID).
//
// A fetch failure aborts the whole cycle and records the error on the config.
// A failure on an individual order is logged and skipped so one malformed
// payload cannot block the rest of the batch.
type SyncService struct {
	registry marketplace.AdapterRegistry
	orders   marketplace.OrderRepository
	configs  marketplace.ConfigRepository
	logger   *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	registry marketplace.AdapterRegistry,
	orders marketplace.OrderRepository,
	configs marketplace.ConfigRepository,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		registry: registry,
		orders:   orders,
		configs:  configs,
		logger:   logger,
	}
}

// SyncOrders runs one sync cycle for the marketplace. Nil date bounds default
// to the last seven days ending now.
func (s *SyncService) SyncOrders(ctx context.Context, mp marketplace.Marketplace, from, to *time.Time) (*SyncResult, error) {
	if !mp.IsValid() {
		return nil, marketplace.ErrUnsupportedMarketplace
	}

	now := time.Now()
	fromDate := now.Add(-defaultSyncWindow)
	toDate := now
	if from != nil {
		fromDate = *from
	}
	if to != nil {
		toDate = *to
	}
	if fromDate.After(toDate) {
		return nil, marketplace.ErrInvalidDateRange
	}

	cfg, err := s.registry.ResolveConfig(ctx, mp)
	if err != nil {
		return nil, err
	}
	adapter, err := s.registry.AdapterFor(cfg)
	if err != nil {
		return nil, err
	}

	raws, err := adapter.FetchOrders(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("order fetch failed",
			zap.String("marketplace", mp.String()),
			zap.Error(err))
		s.recordOutcome(ctx, cfg, err)
		return nil, err
	}

	result := &SyncResult{
		Marketplace:   mp,
		OrdersFetched: len(raws),
		From:          fromDate,
		To:            toDate,
	}

	result.Orders = make([]*marketplace.Order, 0, len(raws))
	for _, raw := range raws {
		order, created, err := s.upsertOrder(ctx, adapter, raw)
		if err != nil {
			result.OrdersFailed++
			s.logger.Warn("skipping order that failed to process",
				zap.String("marketplace", mp.String()),
				zap.Error(err))
			continue
		}
		result.OrdersProcessed++
		result.Orders = append(result.Orders, order)
		if created {
			result.OrdersCreated++
		} else {
			result.OrdersUpdated++
		}
	}

	s.recordOutcome(ctx, cfg, nil)

	s.logger.Info("sync cycle completed",
		zap.String("marketplace", mp.String()),
		zap.Int("fetched", result.OrdersFetched),
		zap.Int("created", result.OrdersCreated),
		zap.Int("updated", result.OrdersUpdated),
		zap.Int("failed", result.OrdersFailed))

	return result, nil
}

// upsertOrder normalizes one raw order and creates or updates the stored
// canonical order. Returns the stored order and whether a new row was created.
func (s *SyncService) upsertOrder(ctx context.Context, adapter marketplace.OrderAdapter, raw marketplace.RawOrder) (*marketplace.Order, bool, error) {
	fresh, err := adapter.NormalizeOrder(raw)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.orders.FindByExternalID(ctx, fresh.Marketplace, fresh.ExternalOrderID)
	switch {
	case err == nil:
		existing.MergeFrom(fresh)
		if err := s.orders.Save(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case errors.Is(err, marketplace.ErrOrderNotFound):
		if err := s.orders.Save(ctx, fresh); err != nil {
			return nil, false, err
		}
		return fresh, true, nil
	default:
		return nil, false, err
	}
}

// recordOutcome stamps the sync outcome on the config. Persisting the stamp
// is best effort; a failure here must not mask the sync result.
func (s *SyncService) recordOutcome(ctx context.Context, cfg *marketplace.Config, syncErr error) {
	now := time.Now()
	if syncErr != nil {
		cfg.RecordSyncError(syncErr.Error(), now)
	} else {
		cfg.RecordSyncSuccess(now)
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		s.logger.Warn("failed to persist sync outcome",
			zap.String("marketplace", cfg.Marketplace.String()),
			zap.Error(err))
	}
}
