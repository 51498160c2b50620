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

// amazonOrdersResponse is the envelope of the SP-API getOrders operation
type amazonOrdersResponse struct {
	Orders []json.RawMessage `json:"Orders"`
}

// amazonMoney is the SP-API money shape
type amazonMoney struct {
	Amount       string `json:"Amount"`
	CurrencyCode string `json:"CurrencyCode"`
}

// amazonOrder is one order as returned by the SP-API orders endpoint
type amazonOrder struct {
	AmazonOrderID string       `json:"AmazonOrderId"`
	PurchaseDate  string       `json:"PurchaseDate"`
	OrderStatus   string       `json:"OrderStatus"`
	PaymentMethod string       `json:"PaymentMethod"`
	OrderTotal    *amazonMoney `json:"OrderTotal"`
	BuyerInfo *struct {
		BuyerName  string `json:"BuyerName"`
		BuyerEmail string `json:"BuyerEmail"`
	} `json:"BuyerInfo"`
	ShippingAddress *struct {
		City          string `json:"City"`
		StateOrRegion string `json:"StateOrRegion"`
		PostalCode    string `json:"PostalCode"`
		CountryCode   string `json:"CountryCode"`
	} `json:"ShippingAddress"`
}

// AmazonAdapter fetches and normalizes orders from Amazon SP-API.
//
// The order-listing endpoint carries no line items and no fee breakdown:
// items require a separate order-items call and fees only appear in
// settlement reports. Normalized Amazon orders therefore have an empty item
// list and zero fees, which makes NetAmount equal TotalAmount until a
// settlement import refines it.
type AmazonAdapter struct {
	creds      *marketplace.AmazonCredentials
	httpClient *http.Client
	logger     *zap.Logger
}

var _ marketplace.OrderAdapter = (*AmazonAdapter)(nil)

// NewAmazonAdapter creates an adapter bound to the given credentials
func NewAmazonAdapter(creds *marketplace.AmazonCredentials, logger *zap.Logger) (*AmazonAdapter, error) {
	if creds == nil {
		return nil, marketplace.ErrCredentialsMissing
	}
	return &AmazonAdapter{
		creds:      creds,
		httpClient: newHTTPClient(defaultRequestTimeout),
		logger:     logger,
	}, nil
}

// Marketplace returns the marketplace this adapter handles
func (a *AmazonAdapter) Marketplace() marketplace.Marketplace {
	return marketplace.MarketplaceAmazon
}

// FetchOrders fetches raw orders created within [from, to]
func (a *AmazonAdapter) FetchOrders(ctx context.Context, from, to time.Time) ([]marketplace.RawOrder, error) {
	params := url.Values{}
	params.Set("MarketplaceIds", a.creds.MarketplaceID)
	params.Set("CreatedAfter", from.UTC().Format(time.RFC3339))
	params.Set("CreatedBefore", to.UTC().Format(time.RFC3339))

	body, err := doGet(ctx, a.httpClient, a.creds.APIURL+"/orders/v0/orders", a.creds.AccessToken, params)
	if err != nil {
		return nil, err
	}

	var resp amazonOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order listing: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	raws := make([]marketplace.RawOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		raws = append(raws, marketplace.RawOrder(o))
	}
	return raws, nil
}

// NormalizeOrder converts one Amazon order into the canonical schema
func (a *AmazonAdapter) NormalizeOrder(raw marketplace.RawOrder) (*marketplace.Order, error) {
	var ao amazonOrder
	if err := json.Unmarshal(raw, &ao); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	order, err := marketplace.NewOrder(marketplace.MarketplaceAmazon, ao.AmazonOrderID)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, ao.PurchaseDate); err == nil {
		order.OrderDate = t
	}

	customer := marketplace.CustomerSnapshot{Name: "Amazon Customer"}
	if ao.BuyerInfo != nil {
		if ao.BuyerInfo.BuyerName != "" {
			customer.Name = ao.BuyerInfo.BuyerName
		}
		customer.Email = ao.BuyerInfo.BuyerEmail
	}
	if ao.ShippingAddress != nil {
		customer.Address = marketplace.Address{
			City:    ao.ShippingAddress.City,
			State:   ao.ShippingAddress.StateOrRegion,
			Pincode: ao.ShippingAddress.PostalCode,
			Country: ao.ShippingAddress.CountryCode,
		}
	}
	order.Customer = customer

	total := decimalFromAmountString(ao.OrderTotal)
	order.Items = []marketplace.OrderItem{}
	order.SetTotals(total, marketplace.Fees{})

	order.OrderStatus = a.mapOrderStatus(ao.AmazonOrderID, ao.OrderStatus)
	if ao.PaymentMethod == "COD" {
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

// decimalFromAmountString parses the SP-API money shape, tolerating absence
func decimalFromAmountString(total *amazonMoney) decimal.Decimal {
	if total == nil || total.Amount == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(total.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// mapOrderStatus maps Amazon's status vocabulary onto the canonical statuses
func (a *AmazonAdapter) mapOrderStatus(orderID, status string) marketplace.OrderStatus {
	switch status {
	case "Pending":
		return marketplace.OrderStatusPending
	case "Unshipped":
		return marketplace.OrderStatusConfirmed
	case "PartiallyShipped":
		return marketplace.OrderStatusPacked
	case "Shipped":
		return marketplace.OrderStatusShipped
	case "Delivered":
		return marketplace.OrderStatusDelivered
	case "Canceled":
		return marketplace.OrderStatusCancelled
	default:
		warnUnknownStatus(a.logger, marketplace.MarketplaceAmazon, orderID, status)
		return marketplace.OrderStatusPending
	}
}
