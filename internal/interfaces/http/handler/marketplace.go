package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appmarketplace "github.com/rathi101/ankisho-billing-software/internal/application/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// MarketplaceHandler serves the marketplace sync and reconciliation API
type MarketplaceHandler struct {
	BaseHandler
	configs    *appmarketplace.ConfigService
	sync       *appmarketplace.SyncService
	orders     *appmarketplace.OrderQueryService
	conversion *appmarketplace.ConversionService
	analytics  *appmarketplace.AnalyticsService
	logger     *zap.Logger
}

// NewMarketplaceHandler creates a new MarketplaceHandler
func NewMarketplaceHandler(
	configs *appmarketplace.ConfigService,
	sync *appmarketplace.SyncService,
	orders *appmarketplace.OrderQueryService,
	conversion *appmarketplace.ConversionService,
	analytics *appmarketplace.AnalyticsService,
	logger *zap.Logger,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		configs:    configs,
		sync:       sync,
		orders:     orders,
		conversion: conversion,
		analytics:  analytics,
		logger:     logger,
	}
}

// RegisterRoutes registers marketplace routes on the given group
func (h *MarketplaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mp := rg.Group("/marketplace")
	{
		mp.GET("/configs", h.ListConfigs)
		mp.PUT("/configs/:marketplace", h.UpsertConfig)
		mp.POST("/sync/:marketplace", h.SyncOrders)
		mp.GET("/sales", h.ListOrders)
		mp.GET("/sales/:id", h.GetOrder)
		mp.POST("/sales/:id/convert", h.ConvertOrder)
		mp.GET("/analytics", h.GetAnalytics)
	}
}

// ListConfigs returns the stored configuration of every marketplace
func (h *MarketplaceHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configs.ListConfigs(c.Request.Context())
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	h.Success(c, dto.NewConfigResponses(configs))
}

// UpsertConfig creates or updates the configuration of one marketplace
func (h *MarketplaceHandler) UpsertConfig(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}

	var req dto.ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}

	cfg, err := h.configs.UpsertConfig(c.Request.Context(), mp, req.ToInput())
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	h.Success(c, dto.NewConfigResponse(cfg))
}

// SyncOrders runs one synchronization cycle for a marketplace
func (h *MarketplaceHandler) SyncOrders(c *gin.Context) {
	mp, ok := h.parseMarketplace(c)
	if !ok {
		return
	}
	from, to, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	result, err := h.sync.SyncOrders(c.Request.Context(), mp, from, to)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	h.logger.Info("Manual sync completed",
		zap.String("marketplace", mp.String()),
		zap.Int("orders_fetched", result.OrdersFetched),
		zap.Int("orders_failed", result.OrdersFailed))
	h.Success(c, dto.NewSyncResponse(result))
}

// ListOrders returns synced marketplace orders, filtered and paginated
func (h *MarketplaceHandler) ListOrders(c *gin.Context) {
	var req dto.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	filter := marketplace.OrderFilter{
		Page:     req.Page,
		PageSize: req.Limit,
	}
	if req.Marketplace != "" {
		mp := marketplace.Marketplace(req.Marketplace)
		if !mp.IsValid() {
			h.BadRequest(c, "unsupported marketplace: "+req.Marketplace)
			return
		}
		filter.Marketplace = &mp
	}
	if req.Status != "" {
		status := marketplace.OrderStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "invalid order status: "+req.Status)
			return
		}
		filter.Status = &status
	}
	var ok bool
	if filter.FromDate, ok = h.parseDate(c, req.FromDate, "from_date"); !ok {
		return
	}
	if filter.ToDate, ok = h.parseDate(c, req.ToDate, "to_date"); !ok {
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.NewOrderResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetOrder returns a single synced order by ID
func (h *MarketplaceHandler) GetOrder(c *gin.Context) {
	id, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	h.Success(c, dto.NewOrderResponse(order))
}

// ConvertOrder converts a synced order into an internal sale
func (h *MarketplaceHandler) ConvertOrder(c *gin.Context) {
	id, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	sale, err := h.conversion.ConvertOrder(c.Request.Context(), id)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	h.logger.Info("Order converted to sale",
		zap.String("order_id", id.String()),
		zap.String("invoice_number", sale.InvoiceNumber))
	h.Created(c, dto.ConvertedSaleResponse{
		SaleID:        sale.ID.String(),
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID.String(),
		TotalAmount:   sale.TotalAmount,
		PaidAmount:    sale.PaidAmount,
		PaymentStatus: string(sale.PaymentStatus),
		Status:        string(sale.Status),
	})
}

// GetAnalytics returns per-marketplace and summary aggregations
func (h *MarketplaceHandler) GetAnalytics(c *gin.Context) {
	from, to, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	analytics, err := h.analytics.GetAnalytics(c.Request.Context(), from, to)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	h.Success(c, dto.NewAnalyticsResponse(analytics))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *MarketplaceHandler) parseMarketplace(c *gin.Context) (marketplace.Marketplace, bool) {
	mp := marketplace.Marketplace(c.Param("marketplace"))
	if !mp.IsValid() {
		h.BadRequest(c, "unsupported marketplace: "+c.Param("marketplace"))
		return "", false
	}
	return mp, true
}

func (h *MarketplaceHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *MarketplaceHandler) parseDate(c *gin.Context, value, name string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		h.BadRequest(c, "invalid "+name+", expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func (h *MarketplaceHandler) parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, ok := h.parseDate(c, c.Query("from_date"), "from_date")
	if !ok {
		return nil, nil, false
	}
	to, ok := h.parseDate(c, c.Query("to_date"), "to_date")
	if !ok {
		return nil, nil, false
	}
	return from, to, true
}

// handleMarketplaceError maps marketplace sentinels before falling back to
// the generic domain error handling
func (h *MarketplaceHandler) handleMarketplaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marketplace.ErrOrderNotFound),
		errors.Is(err, marketplace.ErrConfigNotFoundOrInactive):
		h.NotFound(c, err.Error())
	case errors.Is(err, marketplace.ErrUnsupportedMarketplace),
		errors.Is(err, marketplace.ErrInvalidDateRange),
		errors.Is(err, marketplace.ErrCredentialsMissing),
		errors.Is(err, marketplace.ErrCredentialsMismatch),
		errors.Is(err, marketplace.ErrAlreadyConverted):
		h.BadRequest(c, err.Error())
	case errors.Is(err, marketplace.ErrConversionInProgress):
		h.Conflict(c, err.Error())
	case errors.Is(err, marketplace.ErrAPITimeout):
		h.Error(c, dto.ErrCodeUpstreamTimeout, err.Error())
	case errors.Is(err, marketplace.ErrAPIRequestFailed),
		errors.Is(err, marketplace.ErrAPIInvalidResponse):
		h.Error(c, dto.ErrCodeUpstream, err.Error())
	default:
		h.HandleError(c, err)
	}
}
