package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rathi101/ankisho-billing-software/internal/domain/catalog"
	"github.com/rathi101/ankisho-billing-software/internal/domain/partner"
	"github.com/rathi101/ankisho-billing-software/internal/domain/trade"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence/models"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.MarketplaceOrderModel{},
		&models.MarketplaceConfigModel{},
		&partner.Customer{},
		&catalog.Product{},
		&trade.Sale{},
		&trade.SaleItem{},
	)
	require.NoError(t, err)

	return db
}
