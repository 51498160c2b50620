package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rathi101/ankisho-billing-software/internal/domain/catalog"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/partner"
	"github.com/rathi101/ankisho-billing-software/internal/domain/trade"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence/models"
)

// testEnv bundles a fresh in-memory database with repositories wired the way
// the server wires them.
type testEnv struct {
	db        *gorm.DB
	orders    marketplace.OrderRepository
	configs   marketplace.ConfigRepository
	customers partner.CustomerRepository
	products  catalog.ProductRepository
	sales     trade.SaleRepository
}

func newTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		db:        db,
		orders:    persistence.NewGormMarketplaceOrderRepository(db),
		configs:   persistence.NewGormMarketplaceConfigRepository(db),
		customers: persistence.NewGormCustomerRepository(db),
		products:  persistence.NewGormProductRepository(db),
		sales:     persistence.NewGormSaleRepository(db),
	}
}

func (e *testEnv) txRepos(tx *gorm.DB) TxRepos {
	return TxRepos{
		Orders:    persistence.NewGormMarketplaceOrderRepository(tx),
		Customers: persistence.NewGormCustomerRepository(tx),
		Products:  persistence.NewGormProductRepository(tx),
		Sales:     persistence.NewGormSaleRepository(tx),
	}
}

// saveActiveMeeshoConfig stores an active Meesho config pointed at the given
// API base URL.
func (e *testEnv) saveActiveMeeshoConfig(t *testing.T, apiURL string) *marketplace.Config {
	t.Helper()
	cfg, err := marketplace.NewConfig(marketplace.MarketplaceMeesho)
	require.NoError(t, err)
	cfg.IsActive = true
	cfg.Credentials.Meesho = &marketplace.MeeshoCredentials{
		MerchantID:         "merchant-1",
		SupplierIdentifier: "supplier-1",
		Secret:             "test-secret",
		APIURL:             apiURL,
	}
	require.NoError(t, e.configs.Save(context.Background(), cfg))
	return cfg
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func timePtr(t time.Time) *time.Time {
	return &t
}
