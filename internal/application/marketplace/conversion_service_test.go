package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rathi101/ankisho-billing-software/internal/domain/catalog"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
	"github.com/rathi101/ankisho-billing-software/internal/domain/trade"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/cache"
)

func newConversionService(t *testing.T, env *testEnv, lock shared.ConversionLock) *ConversionService {
	t.Helper()
	if lock == nil {
		l := cache.NewInMemoryConversionLock()
		t.Cleanup(func() { l.Close() })
		lock = l
	}
	return NewConversionService(env.db, env.txRepos, lock, shared.DefaultLockConfig(), testLogger())
}

// seedMeeshoOrder stores a shipped, paid Meesho order with one line item.
func seedMeeshoOrder(t *testing.T, env *testEnv, externalID string) *marketplace.Order {
	t.Helper()
	order, err := marketplace.NewOrder(marketplace.MarketplaceMeesho, externalID)
	require.NoError(t, err)
	order.OrderDate = time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	order.Customer = marketplace.CustomerSnapshot{
		Name:  "Priya Sharma",
		Phone: "9876543210",
		Address: marketplace.Address{
			Street: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001",
		},
	}
	order.Items = []marketplace.OrderItem{{
		ExternalProductID: "P1",
		ProductName:       "Cotton Shirt",
		SKU:               "SH-100",
		Quantity:          2,
		UnitPrice:         decimal.NewFromInt(500),
		TotalPrice:        decimal.NewFromInt(1000),
	}}
	order.SetTotals(decimal.NewFromInt(1000), marketplace.Fees{
		Commission: decimal.NewFromInt(30),
		Shipping:   decimal.NewFromInt(15),
		Tax:        decimal.NewFromInt(5),
	})
	order.OrderStatus = marketplace.OrderStatusShipped
	order.PaymentStatus = marketplace.PaymentStatusPaid
	require.NoError(t, env.orders.Save(context.Background(), order))
	return order
}

func TestConversionService_ConvertOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	order := seedMeeshoOrder(t, env, "M100")

	ctx := context.Background()
	sale, err := svc.ConvertOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "SAL-20260820-0001", sale.InvoiceNumber)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, sale.PaidAmount.Equal(decimal.NewFromInt(1000)), "paid order settles in full")
	assert.Equal(t, trade.SalePaymentPaid, sale.PaymentStatus)
	assert.Equal(t, trade.SaleStatusPending, sale.Status, "shipped but not delivered stays pending")
	assert.Equal(t, "online", sale.PaymentMethod)
	assert.Equal(t, trade.SaleSourceMarketplace, sale.Metadata.Source)
	assert.Equal(t, "M100", sale.Metadata.ExternalOrderID)
	require.NotNil(t, sale.Metadata.MarketplaceOrderID)
	assert.Equal(t, order.ID, *sale.Metadata.MarketplaceOrderID)

	// Customer created from the order snapshot.
	customer, err := env.customers.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", customer.Name)
	assert.Equal(t, customer.ID, sale.CustomerID)

	// Product matched by SKU (created here, zero stock, flagged for review).
	product, err := env.products.FindBySKU(ctx, "SH-100")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
	assert.True(t, product.NeedsStockReview)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, product.ID, sale.Items[0].ProductID)
	assert.Equal(t, 2, sale.Items[0].Quantity)

	// The product link is written back onto the stored order.
	reloaded, err := env.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Items[0].LocalProductID)
	assert.Equal(t, product.ID, *reloaded.Items[0].LocalProductID)
}

func TestConversionService_ConvertOrder_AlreadyConverted(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	order := seedMeeshoOrder(t, env, "M100")

	ctx := context.Background()
	_, err := svc.ConvertOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.ConvertOrder(ctx, order.ID)
	assert.ErrorIs(t, err, marketplace.ErrAlreadyConverted)

	sales, err := env.sales.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestConversionService_ConvertOrder_LockContention(t *testing.T) {
	env := newTestEnv(t)
	lock := cache.NewInMemoryConversionLock()
	t.Cleanup(func() { lock.Close() })
	svc := newConversionService(t, env, lock)
	order := seedMeeshoOrder(t, env, "M100")

	ctx := context.Background()
	held, err := lock.Acquire(ctx, "marketplace:convert:"+order.ID.String(), time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	_, err = svc.ConvertOrder(ctx, order.ID)
	assert.ErrorIs(t, err, marketplace.ErrConversionInProgress)
}

func TestConversionService_ConvertOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)

	_, err := svc.ConvertOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, marketplace.ErrOrderNotFound)
}

func TestConversionService_ConvertOrder_ReusesCustomerAndProduct(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	first := seedMeeshoOrder(t, env, "M100")
	second := seedMeeshoOrder(t, env, "M101")

	ctx := context.Background()
	saleA, err := svc.ConvertOrder(ctx, first.ID)
	require.NoError(t, err)
	saleB, err := svc.ConvertOrder(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, saleA.CustomerID, saleB.CustomerID, "same phone resolves to one customer")
	assert.Equal(t, saleA.Items[0].ProductID, saleB.Items[0].ProductID, "same SKU resolves to one product")

	customerCount, err := env.customers.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), customerCount)

	productCount, err := env.products.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), productCount)

	// Invoice sequence advances within the day.
	assert.Equal(t, "SAL-20260820-0001", saleA.InvoiceNumber)
	assert.Equal(t, "SAL-20260820-0002", saleB.InvoiceNumber)
}

func TestConversionService_ConvertOrder_DeliveredCompletesSale(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	order := seedMeeshoOrder(t, env, "M100")
	order.OrderStatus = marketplace.OrderStatusDelivered
	require.NoError(t, env.orders.Save(context.Background(), order))

	sale, err := svc.ConvertOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.SaleStatusCompleted, sale.Status)
}

func TestConversionService_ConvertOrder_UnpaidOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	order := seedMeeshoOrder(t, env, "M100")
	order.PaymentStatus = marketplace.PaymentStatusPending
	require.NoError(t, env.orders.Save(context.Background(), order))

	sale, err := svc.ConvertOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, sale.PaidAmount.IsZero())
	assert.Equal(t, trade.SalePaymentPending, sale.PaymentStatus)
}

// Amazon listings carry no line items; the sale still carries the order total.
func TestConversionService_ConvertOrder_EmptyItems(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)

	order, err := marketplace.NewOrder(marketplace.MarketplaceAmazon, "171-1234567-0000001")
	require.NoError(t, err)
	order.OrderDate = time.Date(2026, 8, 21, 8, 0, 0, 0, time.UTC)
	order.Customer = marketplace.CustomerSnapshot{Name: "Amazon Customer"}
	order.SetTotals(decimal.NewFromFloat(749.50), marketplace.Fees{})
	order.OrderStatus = marketplace.OrderStatusConfirmed
	order.PaymentStatus = marketplace.PaymentStatusPaid
	ctx := context.Background()
	require.NoError(t, env.orders.Save(ctx, order))

	sale, err := svc.ConvertOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Empty(t, sale.Items)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(749.50)),
		"order total is authoritative even without items")
	assert.Equal(t, trade.SalePaymentPaid, sale.PaymentStatus)

	// No phone on the snapshot, so a fresh customer is created by name.
	customer, err := env.customers.FindByID(ctx, sale.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Amazon Customer", customer.Name)
}

// An invoice number already taken for the day must not collide with the one
// minted for a new conversion.
func TestConversionService_ConvertOrder_InvoiceNumberSkipsTaken(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)
	ctx := context.Background()

	order := seedMeeshoOrder(t, env, "M100")
	taken, err := trade.NewSale(
		trade.FormatInvoiceNumber(order.OrderDate, 1), uuid.New(), order.OrderDate.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.NoError(t, env.sales.Save(ctx, taken))

	sale, err := svc.ConvertOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.FormatInvoiceNumber(order.OrderDate, 2), sale.InvoiceNumber)
}

// An auto-created product keeps the item's own SKU; synthesis only kicks in
// when the item carries none.
func TestConversionService_ConvertOrder_AutoCreatedProductSKU(t *testing.T) {
	t.Run("item SKU preserved", func(t *testing.T) {
		env := newTestEnv(t)
		svc := newConversionService(t, env, nil)

		order := seedMeeshoOrder(t, env, "M100")
		ctx := context.Background()

		_, err := svc.ConvertOrder(ctx, order.ID)
		require.NoError(t, err)

		product, err := env.products.FindBySKU(ctx, "SH-100")
		require.NoError(t, err)
		assert.Equal(t, "SH-100", product.SKU)

		_, err = env.products.FindBySKU(ctx, "MEESHO-P1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("synthesized when item has none", func(t *testing.T) {
		env := newTestEnv(t)
		svc := newConversionService(t, env, nil)

		order := seedMeeshoOrder(t, env, "M101")
		order.Items[0].SKU = ""
		ctx := context.Background()
		require.NoError(t, env.orders.Save(ctx, order))

		_, err := svc.ConvertOrder(ctx, order.ID)
		require.NoError(t, err)

		product, err := env.products.FindBySKU(ctx, "MEESHO-P1")
		require.NoError(t, err)
		assert.Equal(t, "MEESHO-P1", product.SKU)
	})
}

func TestConversionService_ConvertOrder_ProductMatchedByName(t *testing.T) {
	env := newTestEnv(t)
	svc := newConversionService(t, env, nil)

	order := seedMeeshoOrder(t, env, "M100")
	order.Items[0].SKU = ""
	ctx := context.Background()
	require.NoError(t, env.orders.Save(ctx, order))

	existing, err := catalog.NewProduct("LOCAL-1", "Cotton Shirt", decimal.NewFromInt(450))
	require.NoError(t, err)
	require.NoError(t, env.products.Save(ctx, existing))

	sale, err := svc.ConvertOrder(ctx, order.ID)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, existing.ID, sale.Items[0].ProductID, "exact name match reuses the local product")

	count, err := env.products.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
