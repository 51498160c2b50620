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

// meeshoOrdersResponse is the envelope of the Meesho order-listing API
type meeshoOrdersResponse struct {
	Orders []json.RawMessage `json:"orders"`
}

// meeshoOrder is one order as returned by the Meesho supplier API
type meeshoOrder struct {
	OrderID         string `json:"order_id"`
	OrderDate       string `json:"order_date"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress struct {
		AddressLine1 string `json:"address_line_1"`
		City         string `json:"city"`
		State        string `json:"state"`
		Pincode      string `json:"pincode"`
	} `json:"shipping_address"`
	// Amounts decode as decimals so values sent either as JSON numbers or
	// as quoted strings ("500") both parse.
	Items []struct {
		ProductID   string          `json:"product_id"`
		ProductName string          `json:"product_name"`
		SKU         string          `json:"sku"`
		Quantity    int             `json:"quantity"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		TotalPrice  decimal.Decimal `json:"total_price"`
	} `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CommissionFee decimal.Decimal `json:"commission_fee"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
}

// MeeshoAdapter fetches and normalizes orders from the Meesho supplier API
type MeeshoAdapter struct {
	creds      *marketplace.MeeshoCredentials
	httpClient *http.Client
	logger     *zap.Logger
}

var _ marketplace.OrderAdapter = (*MeeshoAdapter)(nil)

// NewMeeshoAdapter creates an adapter bound to the given credentials
func NewMeeshoAdapter(creds *marketplace.MeeshoCredentials, logger *zap.Logger) (*MeeshoAdapter, error) {
	if creds == nil {
		return nil, marketplace.ErrCredentialsMissing
	}
	return &MeeshoAdapter{
		creds:      creds,
		httpClient: newHTTPClient(defaultRequestTimeout),
		logger:     logger,
	}, nil
}

// Marketplace returns the marketplace this adapter handles
func (a *MeeshoAdapter) Marketplace() marketplace.Marketplace {
	return marketplace.MarketplaceMeesho
}

// FetchOrders fetches raw orders created within [from, to]
func (a *MeeshoAdapter) FetchOrders(ctx context.Context, from, to time.Time) ([]marketplace.RawOrder, error) {
	params := url.Values{}
	params.Set("merchant_id", a.creds.MerchantID)
	params.Set("supplier_identifier", a.creds.SupplierIdentifier)
	params.Set("from_date", from.UTC().Format(time.RFC3339))
	params.Set("to_date", to.UTC().Format(time.RFC3339))

	body, err := doGet(ctx, a.httpClient, a.creds.APIURL+"/api/v1/orders", a.creds.Secret, params)
	if err != nil {
		return nil, err
	}

	var resp meeshoOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order listing: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	raws := make([]marketplace.RawOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		raws = append(raws, marketplace.RawOrder(o))
	}
	return raws, nil
}

// NormalizeOrder converts one Meesho order into the canonical schema
func (a *MeeshoAdapter) NormalizeOrder(raw marketplace.RawOrder) (*marketplace.Order, error) {
	var mo meeshoOrder
	if err := json.Unmarshal(raw, &mo); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	order, err := marketplace.NewOrder(marketplace.MarketplaceMeesho, mo.OrderID)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, mo.OrderDate); err == nil {
		order.OrderDate = t
	}

	order.Customer = marketplace.CustomerSnapshot{
		Name:  mo.CustomerName,
		Phone: mo.CustomerPhone,
		Address: marketplace.Address{
			Street:  mo.ShippingAddress.AddressLine1,
			City:    mo.ShippingAddress.City,
			State:   mo.ShippingAddress.State,
			Pincode: mo.ShippingAddress.Pincode,
		},
	}

	order.Items = make([]marketplace.OrderItem, 0, len(mo.Items))
	for _, item := range mo.Items {
		order.Items = append(order.Items, marketplace.OrderItem{
			ExternalProductID: item.ProductID,
			ProductName:       item.ProductName,
			SKU:               item.SKU,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			TotalPrice:        item.TotalPrice,
		})
	}

	order.SetTotals(mo.TotalAmount, marketplace.Fees{
		Commission: mo.CommissionFee,
		Shipping:   mo.ShippingFee,
		Tax:        mo.TaxAmount,
	})

	order.OrderStatus = a.mapOrderStatus(mo.OrderID, mo.Status)
	if mo.PaymentStatus == "paid" {
		order.PaymentStatus = marketplace.PaymentStatusPaid
	}
	order.RawData = string(raw)

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// mapOrderStatus maps Meesho's status vocabulary onto the canonical statuses
func (a *MeeshoAdapter) mapOrderStatus(orderID, status string) marketplace.OrderStatus {
	switch status {
	case "new":
		return marketplace.OrderStatusPending
	case "confirmed":
		return marketplace.OrderStatusConfirmed
	case "packed":
		return marketplace.OrderStatusPacked
	case "shipped":
		return marketplace.OrderStatusShipped
	case "delivered":
		return marketplace.OrderStatusDelivered
	case "cancelled":
		return marketplace.OrderStatusCancelled
	case "returned":
		return marketplace.OrderStatusReturned
	default:
		warnUnknownStatus(a.logger, marketplace.MarketplaceMeesho, orderID, status)
		return marketplace.OrderStatusPending
	}
}
