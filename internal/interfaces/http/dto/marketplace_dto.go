package dto

import (
	"time"

	"github.com/shopspring/decimal"

	appmarketplace "github.com/rathi101/ankisho-billing-software/internal/application/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// ConfigRequest is the payload for upserting a marketplace configuration
type ConfigRequest struct {
	IsActive            *bool                        `json:"is_active"`
	Credentials         *marketplace.Credentials     `json:"credentials"`
	AutoSync            *bool                        `json:"auto_sync"`
	SyncIntervalMinutes *int                         `json:"sync_interval_minutes"`
	Mapping             *marketplace.MappingSettings `json:"mapping"`
}

// ToInput converts the request into the application-layer input
func (r ConfigRequest) ToInput() appmarketplace.ConfigInput {
	return appmarketplace.ConfigInput{
		IsActive:    r.IsActive,
		Credentials: r.Credentials,
		AutoSync:    r.AutoSync,
		IntervalMin: r.SyncIntervalMinutes,
		Mapping:     r.Mapping,
	}
}

// OrderListRequest carries the query parameters of the order list endpoint
type OrderListRequest struct {
	Marketplace string `form:"marketplace"`
	Status      string `form:"status"`
	FromDate    string `form:"from_date"`
	ToDate      string `form:"to_date"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// DateRangeRequest carries optional from/to query parameters
type DateRangeRequest struct {
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ConfigResponse is the stored configuration of one marketplace. Credential
// secrets are never echoed back; only their presence is reported.
type ConfigResponse struct {
	Marketplace         string                      `json:"marketplace"`
	IsActive            bool                        `json:"is_active"`
	Status              string                      `json:"status"`
	HasCredentials      bool                        `json:"has_credentials"`
	AutoSync            bool                        `json:"auto_sync"`
	SyncIntervalMinutes int                         `json:"sync_interval_minutes"`
	LastSyncAt          *time.Time                  `json:"last_sync_at"`
	LastError           *ConfigErrorResponse        `json:"last_error,omitempty"`
	Mapping             marketplace.MappingSettings `json:"mapping"`
}

// ConfigErrorResponse is the last recorded sync failure
type ConfigErrorResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewConfigResponse maps a config to its API shape
func NewConfigResponse(cfg *marketplace.Config) ConfigResponse {
	resp := ConfigResponse{
		Marketplace:         cfg.Marketplace.String(),
		IsActive:            cfg.IsActive,
		Status:              cfg.Status.String(),
		HasCredentials:      cfg.Credentials.Validate(cfg.Marketplace) == nil,
		AutoSync:            cfg.Sync.AutoSync,
		SyncIntervalMinutes: cfg.Sync.IntervalMinutes,
		LastSyncAt:          cfg.Sync.LastSyncAt,
		Mapping:             cfg.Mapping,
	}
	if cfg.LastError != nil {
		resp.LastError = &ConfigErrorResponse{
			Message:   cfg.LastError.Message,
			Timestamp: cfg.LastError.Timestamp,
		}
	}
	return resp
}

// NewConfigResponses maps a config slice to the API shape
func NewConfigResponses(configs []marketplace.Config) []ConfigResponse {
	out := make([]ConfigResponse, 0, len(configs))
	for i := range configs {
		out = append(out, NewConfigResponse(&configs[i]))
	}
	return out
}

// OrderItemResponse is one line item of a synced order
type OrderItemResponse struct {
	ExternalProductID string          `json:"external_product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	LocalProductID    *string         `json:"local_product_id,omitempty"`
}

// OrderCustomerResponse is the buyer snapshot of a synced order
type OrderCustomerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// OrderResponse is a synced marketplace order
type OrderResponse struct {
	ID              string                `json:"id"`
	Marketplace     string                `json:"marketplace"`
	ExternalOrderID string                `json:"external_order_id"`
	OrderDate       time.Time             `json:"order_date"`
	Customer        OrderCustomerResponse `json:"customer"`
	Items           []OrderItemResponse   `json:"items"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	CommissionFee   decimal.Decimal       `json:"commission_fee"`
	ShippingFee     decimal.Decimal       `json:"shipping_fee"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	NetAmount       decimal.Decimal       `json:"net_amount"`
	OrderStatus     string                `json:"order_status"`
	PaymentStatus   string                `json:"payment_status"`
	LastSyncAt      time.Time             `json:"last_sync_at"`
}

// NewOrderResponse maps an order to its API shape
func NewOrderResponse(order *marketplace.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		ir := OrderItemResponse{
			ExternalProductID: item.ExternalProductID,
			ProductName:       item.ProductName,
			SKU:               item.SKU,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			TotalPrice:        item.TotalPrice,
		}
		if item.LocalProductID != nil {
			id := item.LocalProductID.String()
			ir.LocalProductID = &id
		}
		items = append(items, ir)
	}

	return OrderResponse{
		ID:              order.ID.String(),
		Marketplace:     order.Marketplace.String(),
		ExternalOrderID: order.ExternalOrderID,
		OrderDate:       order.OrderDate,
		Customer: OrderCustomerResponse{
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			City:    order.Customer.Address.City,
			State:   order.Customer.Address.State,
			Pincode: order.Customer.Address.Pincode,
		},
		Items:         items,
		TotalAmount:   order.TotalAmount,
		CommissionFee: order.Fees.Commission,
		ShippingFee:   order.Fees.Shipping,
		TaxAmount:     order.Fees.Tax,
		NetAmount:     order.NetAmount,
		OrderStatus:   order.OrderStatus.String(),
		PaymentStatus: order.PaymentStatus.String(),
		LastSyncAt:    order.LastSyncAt,
	}
}

// NewOrderResponses maps an order slice to the API shape
func NewOrderResponses(orders []marketplace.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// SyncResponse reports one sync cycle together with the orders it upserted
type SyncResponse struct {
	Marketplace     string          `json:"marketplace"`
	OrdersFetched   int             `json:"orders_fetched"`
	OrdersProcessed int             `json:"orders_processed"`
	OrdersCreated   int             `json:"orders_created"`
	OrdersUpdated   int             `json:"orders_updated"`
	OrdersFailed    int             `json:"orders_failed"`
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Orders          []OrderResponse `json:"orders"`
}

// NewSyncResponse maps a sync result to the API shape
func NewSyncResponse(result *appmarketplace.SyncResult) SyncResponse {
	orders := make([]OrderResponse, 0, len(result.Orders))
	for _, order := range result.Orders {
		orders = append(orders, NewOrderResponse(order))
	}
	return SyncResponse{
		Marketplace:     result.Marketplace.String(),
		OrdersFetched:   result.OrdersFetched,
		OrdersProcessed: result.OrdersProcessed,
		OrdersCreated:   result.OrdersCreated,
		OrdersUpdated:   result.OrdersUpdated,
		OrdersFailed:    result.OrdersFailed,
		From:            result.From,
		To:              result.To,
		Orders:          orders,
	}
}

// ConvertedSaleResponse is the outcome of converting an order to a sale
type ConvertedSaleResponse struct {
	SaleID        string          `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    string          `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
}

// AnalyticsResponse is the marketplace analytics payload. Trends are an
// extension point and currently always empty.
type AnalyticsResponse struct {
	ByMarketplace []MarketplaceStatsResponse      `json:"by_marketplace"`
	Summary       appmarketplace.AnalyticsSummary `json:"summary"`
	Trends        []struct{}                      `json:"trends"`
}

// MarketplaceStatsResponse is one aggregated row per marketplace
type MarketplaceStatsResponse struct {
	Marketplace   string          `json:"marketplace"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// NewAnalyticsResponse maps analytics to the API shape
func NewAnalyticsResponse(analytics *appmarketplace.Analytics) AnalyticsResponse {
	rows := make([]MarketplaceStatsResponse, 0, len(analytics.ByMarketplace))
	for _, row := range analytics.ByMarketplace {
		rows = append(rows, MarketplaceStatsResponse{
			Marketplace:   row.Marketplace.String(),
			TotalOrders:   row.TotalOrders,
			TotalRevenue:  row.TotalRevenue,
			TotalFees:     row.TotalFees,
			NetRevenue:    row.NetRevenue,
			AvgOrderValue: row.AvgOrderValue,
		})
	}
	return AnalyticsResponse{
		ByMarketplace: rows,
		Summary:       analytics.Summary,
		Trends:        []struct{}{},
	}
}
