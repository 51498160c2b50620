package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSale(t *testing.T) {
	customerID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		sale, err := NewSale("SAL-20260830-0001", customerID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, SaleStatusPending, sale.Status)
		assert.Equal(t, SalePaymentPending, sale.PaymentStatus)
		assert.True(t, sale.TotalAmount.IsZero())
	})

	t.Run("missing invoice", func(t *testing.T) {
		_, err := NewSale("", customerID, time.Now())
		assert.Error(t, err)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := NewSale("SAL-20260830-0001", uuid.Nil, time.Now())
		assert.Error(t, err)
	})
}

func TestFormatInvoiceNumber(t *testing.T) {
	date := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "SAL-20260830-0001", FormatInvoiceNumber(date, 1))
	assert.Equal(t, "SAL-20260830-0042", FormatInvoiceNumber(date, 42))
	assert.Equal(t, "SAL-20260830-12345", FormatInvoiceNumber(date, 12345))
}

func TestNewSaleItem(t *testing.T) {
	saleID, productID := uuid.New(), uuid.New()

	item, err := NewSaleItem(saleID, productID, "Cotton Shirt", "SH-100", 2,
		decimal.NewFromInt(500), decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(1000)))

	_, err = NewSaleItem(saleID, uuid.Nil, "Cotton Shirt", "SH-100", 2,
		decimal.NewFromInt(500), decimal.NewFromInt(1000))
	assert.Error(t, err)

	_, err = NewSaleItem(saleID, productID, "Cotton Shirt", "SH-100", 0,
		decimal.NewFromInt(500), decimal.Zero)
	assert.Error(t, err)
}

func TestSale_AddItem(t *testing.T) {
	sale, err := NewSale("SAL-20260830-0001", uuid.New(), time.Now())
	require.NoError(t, err)

	item, err := NewSaleItem(sale.ID, uuid.New(), "Cotton Shirt", "SH-100", 2,
		decimal.NewFromInt(500), decimal.NewFromInt(1000))
	require.NoError(t, err)
	sale.AddItem(item)

	item2, err := NewSaleItem(sale.ID, uuid.New(), "Kurti Set", "KU-200", 1,
		decimal.NewFromInt(799), decimal.NewFromInt(799))
	require.NoError(t, err)
	sale.AddItem(item2)

	assert.Len(t, sale.Items, 2)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(1799)))
	assert.Equal(t, sale.ID, sale.Items[0].SaleID)
}

func TestSale_RecordPayment(t *testing.T) {
	newSale := func(t *testing.T) *Sale {
		sale, err := NewSale("SAL-20260830-0001", uuid.New(), time.Now())
		require.NoError(t, err)
		item, err := NewSaleItem(sale.ID, uuid.New(), "Cotton Shirt", "SH-100", 2,
			decimal.NewFromInt(500), decimal.NewFromInt(1000))
		require.NoError(t, err)
		sale.AddItem(item)
		return sale
	}

	t.Run("full payment", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.RecordPayment(decimal.NewFromInt(1000), "online"))
		assert.Equal(t, SalePaymentPaid, sale.PaymentStatus)
		assert.Equal(t, "online", sale.PaymentMethod)
	})

	t.Run("partial payment", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.RecordPayment(decimal.NewFromInt(400), "cash"))
		assert.Equal(t, SalePaymentPartial, sale.PaymentStatus)
	})

	t.Run("zero payment stays pending", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.RecordPayment(decimal.Zero, ""))
		assert.Equal(t, SalePaymentPending, sale.PaymentStatus)
		assert.Equal(t, "cash", sale.PaymentMethod)
	})

	t.Run("negative rejected", func(t *testing.T) {
		sale := newSale(t)
		assert.Error(t, sale.RecordPayment(decimal.NewFromInt(-5), ""))
	})
}
