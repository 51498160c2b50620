package ecommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

const amazonOrderA1 = `{
	"AmazonOrderId": "171-1234567-0000001",
	"PurchaseDate": "2026-08-21T08:00:00Z",
	"OrderStatus": "Shipped",
	"PaymentMethod": "Other",
	"OrderTotal": {"Amount": "1299.00", "CurrencyCode": "INR"},
	"BuyerInfo": {"BuyerName": "Rahul Verma", "BuyerEmail": "rahul@example.com"},
	"ShippingAddress": {"City": "Delhi", "StateOrRegion": "DL", "PostalCode": "110001", "CountryCode": "IN"}
}`

func newTestAmazonAdapter(t *testing.T, apiURL string) *AmazonAdapter {
	t.Helper()
	adapter, err := NewAmazonAdapter(&marketplace.AmazonCredentials{
		AccessToken:   "test-token",
		MarketplaceID: "A21TJRUUN4KGV",
		APIURL:        apiURL,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestAmazonAdapter_FetchOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/v0/orders", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "A21TJRUUN4KGV", r.URL.Query().Get("MarketplaceIds"))
		assert.NotEmpty(t, r.URL.Query().Get("CreatedAfter"))
		assert.NotEmpty(t, r.URL.Query().Get("CreatedBefore"))
		_, _ = w.Write([]byte(`{"Orders": [` + amazonOrderA1 + `]}`))
	}))
	defer server.Close()

	adapter := newTestAmazonAdapter(t, server.URL)
	raws, err := adapter.FetchOrders(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}

func TestAmazonAdapter_NormalizeOrder(t *testing.T) {
	adapter := newTestAmazonAdapter(t, "http://unused")

	order, err := adapter.NormalizeOrder(marketplace.RawOrder(amazonOrderA1))
	require.NoError(t, err)

	assert.Equal(t, marketplace.MarketplaceAmazon, order.Marketplace)
	assert.Equal(t, "171-1234567-0000001", order.ExternalOrderID)
	assert.Equal(t, marketplace.OrderStatusShipped, order.OrderStatus)
	assert.Equal(t, marketplace.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "Rahul Verma", order.Customer.Name)
	assert.Equal(t, "IN", order.Customer.Address.Country)

	// The listing endpoint carries no items or fees
	assert.Empty(t, order.Items)
	assert.True(t, order.Fees.Total().IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1299.00")))
	assert.True(t, order.NetAmount.Equal(order.TotalAmount))
}

func TestAmazonAdapter_NormalizeOrder_COD(t *testing.T) {
	adapter := newTestAmazonAdapter(t, "http://unused")

	raw := marketplace.RawOrder(`{"AmazonOrderId": "171-1", "OrderStatus": "Pending", "PaymentMethod": "COD"}`)
	order, err := adapter.NormalizeOrder(raw)
	require.NoError(t, err)
	assert.Equal(t, marketplace.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "Amazon Customer", order.Customer.Name)
	assert.True(t, order.TotalAmount.IsZero())
}

func TestAmazonAdapter_StatusMap(t *testing.T) {
	adapter := newTestAmazonAdapter(t, "http://unused")

	tests := []struct {
		raw  string
		want marketplace.OrderStatus
	}{
		{"Pending", marketplace.OrderStatusPending},
		{"Unshipped", marketplace.OrderStatusConfirmed},
		{"PartiallyShipped", marketplace.OrderStatusPacked},
		{"Shipped", marketplace.OrderStatusShipped},
		{"Delivered", marketplace.OrderStatusDelivered},
		{"Canceled", marketplace.OrderStatusCancelled},
		{"InvoiceUnconfirmed", marketplace.OrderStatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, adapter.mapOrderStatus("171-1", tt.raw), tt.raw)
	}
}
