package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		prod    string
		price   string
		wantErr bool
		wantSKU string
	}{
		{"valid", "sh-100", "Cotton Shirt", "499", false, "SH-100"},
		{"sku trimmed and uppercased", "  sh-100  ", "Cotton Shirt", "499", false, "SH-100"},
		{"empty sku", "  ", "Cotton Shirt", "499", true, ""},
		{"empty name", "SH-100", "", "499", true, ""},
		{"negative price", "SH-100", "Cotton Shirt", "-1", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := decimal.NewFromString(tt.price)
			require.NoError(t, err)
			product, err := NewProduct(tt.sku, tt.prod, price)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSKU, product.SKU)
			assert.Equal(t, ProductStatusActive, product.Status)
			assert.Equal(t, ProductSourceManual, product.Source)
			assert.Equal(t, 0, product.Stock)
		})
	}
}

func TestNewMarketplaceProduct(t *testing.T) {
	t.Run("synthesized SKU when item has none", func(t *testing.T) {
		product, err := NewMarketplaceProduct("meesho", "P123", "", "Kurti Set", decimal.NewFromInt(799))
		require.NoError(t, err)
		assert.Equal(t, "MEESHO-P123", product.SKU)
		assert.Equal(t, ProductSourceMarketplace, product.Source)
		assert.True(t, product.NeedsStockReview)
		assert.Equal(t, 0, product.Stock)
	})

	t.Run("item SKU wins when present", func(t *testing.T) {
		product, err := NewMarketplaceProduct("meesho", "P123", "sh-100", "Cotton Shirt", decimal.NewFromInt(499))
		require.NoError(t, err)
		assert.Equal(t, "SH-100", product.SKU)
	})
}

func TestSynthesizeSKU(t *testing.T) {
	assert.Equal(t, "AMAZON-B08XYZ", SynthesizeSKU("amazon", "b08xyz"))
	assert.Equal(t, "FLIPKART-FSN1", SynthesizeSKU("Flipkart", " fsn1 "))
}

func TestProduct_AdjustStock(t *testing.T) {
	product, err := NewProduct("SH-100", "Cotton Shirt", decimal.NewFromInt(499))
	require.NoError(t, err)

	require.NoError(t, product.AdjustStock(10))
	assert.Equal(t, 10, product.Stock)

	require.NoError(t, product.AdjustStock(-4))
	assert.Equal(t, 6, product.Stock)

	err = product.AdjustStock(-7)
	assert.Error(t, err)
	assert.Equal(t, 6, product.Stock)
}

func TestProduct_MarkStockReviewed(t *testing.T) {
	product, err := NewMarketplaceProduct("meesho", "P123", "", "Kurti Set", decimal.NewFromInt(799))
	require.NoError(t, err)
	product.MarkStockReviewed()
	assert.False(t, product.NeedsStockReview)
}
