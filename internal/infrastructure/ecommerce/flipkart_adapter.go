package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// flipkartSearchResponse is the envelope of the Flipkart order search API.
// Flipkart returns order items, not orders; each item becomes a one-line
// canonical order keyed by the parent order ID plus the item's identity.
type flipkartSearchResponse struct {
	OrderItems []json.RawMessage `json:"orderItems"`
}

// flipkartOrderItem is one order item as returned by the seller API.
// Amounts decode as decimals so number and quoted-string values both parse.
type flipkartOrderItem struct {
	OrderID          string          `json:"orderId"`
	OrderDate        string          `json:"orderDate"`
	OrderItemStatus  string          `json:"orderItemStatus"`
	PaymentType      string          `json:"paymentType"`
	SKU              string          `json:"sku"`
	ProductTitle     string          `json:"productTitle"`
	Quantity         int             `json:"quantity"`
	SellingPrice     decimal.Decimal `json:"sellingPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	ShippingFee      decimal.Decimal `json:"shippingFee"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	ShippingAddress  struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		AddressLine1 string `json:"addressLine1"`
		City         string `json:"city"`
		State        string `json:"state"`
		Pincode      string `json:"pincode"`
	} `json:"shippingAddress"`
}

// FlipkartAdapter fetches and normalizes orders from the Flipkart seller API
type FlipkartAdapter struct {
	creds      *marketplace.FlipkartCredentials
	httpClient *http.Client
	logger     *zap.Logger
}

var _ marketplace.OrderAdapter = (*FlipkartAdapter)(nil)

// NewFlipkartAdapter creates an adapter bound to the given credentials
func NewFlipkartAdapter(creds *marketplace.FlipkartCredentials, logger *zap.Logger) (*FlipkartAdapter, error) {
	if creds == nil {
		return nil, marketplace.ErrCredentialsMissing
	}
	return &FlipkartAdapter{
		creds:      creds,
		httpClient: newHTTPClient(defaultRequestTimeout),
		logger:     logger,
	}, nil
}

// Marketplace returns the marketplace this adapter handles
func (a *FlipkartAdapter) Marketplace() marketplace.Marketplace {
	return marketplace.MarketplaceFlipkart
}

// FetchOrders fetches raw order items whose order date falls within [from, to].
// The search endpoint filters on whole days.
func (a *FlipkartAdapter) FetchOrders(ctx context.Context, from, to time.Time) ([]marketplace.RawOrder, error) {
	params := url.Values{}
	params.Set("fromDate", from.UTC().Format("2006-01-02"))
	params.Set("toDate", to.UTC().Format("2006-01-02"))

	body, err := doGet(ctx, a.httpClient, a.creds.APIURL+"/v3/orders/search", a.creds.ApplicationSecret, params)
	if err != nil {
		return nil, err
	}

	var resp flipkartSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order listing: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	raws := make([]marketplace.RawOrder, 0, len(resp.OrderItems))
	for _, o := range resp.OrderItems {
		raws = append(raws, marketplace.RawOrder(o))
	}
	return raws, nil
}

// NormalizeOrder converts one Flipkart order item into the canonical schema
func (a *FlipkartAdapter) NormalizeOrder(raw marketplace.RawOrder) (*marketplace.Order, error) {
	var fo flipkartOrderItem
	if err := json.Unmarshal(raw, &fo); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order item: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	order, err := marketplace.NewOrder(marketplace.MarketplaceFlipkart, fo.OrderID)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, fo.OrderDate); err == nil {
		order.OrderDate = t
	} else if t, err := time.Parse("2006-01-02", fo.OrderDate); err == nil {
		order.OrderDate = t
	}

	name := fo.ShippingAddress.Name
	if name == "" {
		name = "Flipkart Customer"
	}
	order.Customer = marketplace.CustomerSnapshot{
		Name:  name,
		Phone: fo.ShippingAddress.Phone,
		Address: marketplace.Address{
			Street:  fo.ShippingAddress.AddressLine1,
			City:    fo.ShippingAddress.City,
			State:   fo.ShippingAddress.State,
			Pincode: fo.ShippingAddress.Pincode,
		},
	}

	order.Items = []marketplace.OrderItem{{
		ExternalProductID: fo.SKU,
		ProductName:       fo.ProductTitle,
		SKU:               fo.SKU,
		Quantity:          fo.Quantity,
		UnitPrice:         fo.SellingPrice,
		TotalPrice:        fo.TotalPrice,
	}}

	order.SetTotals(fo.TotalPrice, marketplace.Fees{
		Commission: fo.CommissionAmount,
		Shipping:   fo.ShippingFee,
		Tax:        fo.TaxAmount,
	})

	order.OrderStatus = a.mapOrderStatus(fo.OrderID, fo.OrderItemStatus)
	if fo.PaymentType == "COD" {
		order.PaymentStatus = marketplace.PaymentStatusPending
	} else {
		order.PaymentStatus = marketplace.PaymentStatusPaid
	}
	order.RawData = string(raw)

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// mapOrderStatus maps Flipkart's status vocabulary onto the canonical statuses
func (a *FlipkartAdapter) mapOrderStatus(orderID, status string) marketplace.OrderStatus {
	switch status {
	case "APPROVED":
		return marketplace.OrderStatusConfirmed
	case "PACKING_IN_PROGRESS", "PACKED":
		return marketplace.OrderStatusPacked
	case "SHIPPED":
		return marketplace.OrderStatusShipped
	case "DELIVERED":
		return marketplace.OrderStatusDelivered
	case "CANCELLED":
		return marketplace.OrderStatusCancelled
	case "RETURNED":
		return marketplace.OrderStatusReturned
	default:
		warnUnknownStatus(a.logger, marketplace.MarketplaceFlipkart, orderID, status)
		return marketplace.OrderStatusPending
	}
}
