package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rathi101/ankisho-billing-software/internal/domain/catalog"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/partner"
	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
	"github.com/rathi101/ankisho-billing-software/internal/domain/trade"
)

// maxConvertAttempts bounds the transaction retries after a unique-index
// collision, invoice numbers being the usual culprit
const maxConvertAttempts = 3

// TxRepos bundles the repositories a conversion needs, all bound to the same
// transaction so the whole conversion commits or rolls back atomically.
type TxRepos struct {
	Orders    marketplace.OrderRepository
	Customers partner.CustomerRepository
	Products  catalog.ProductRepository
	Sales     trade.SaleRepository
}

// TxReposFactory builds transaction-bound repositories from a gorm handle
type TxReposFactory func(tx *gorm.DB) TxRepos

// ConversionService converts a synced marketplace order into an internal
// sale, creating the customer and products on the fly when they are not yet
// known locally.
//
// Exactly-once conversion is enforced twice: an application-level lock keyed
// by order ID keeps concurrent requests from racing through the check, and
// the unique index on the sale's marketplace order reference rejects a
// duplicate at commit even if the lock failed open (e.g. after a crash).
type ConversionService struct {
	db      *gorm.DB
	repos   TxReposFactory
	lock    shared.ConversionLock
	lockCfg shared.LockConfig
	logger  *zap.Logger
}

// NewConversionService creates a new ConversionService
func NewConversionService(
	db *gorm.DB,
	repos TxReposFactory,
	lock shared.ConversionLock,
	lockCfg shared.LockConfig,
	logger *zap.Logger,
) *ConversionService {
	return &ConversionService{
		db:      db,
		repos:   repos,
		lock:    lock,
		lockCfg: lockCfg,
		logger:  logger,
	}
}

// ConvertOrder converts the marketplace order with the given local ID into a
// sale and returns it. Converting an already-converted order returns
// marketplace.ErrAlreadyConverted; a concurrent conversion of the same order
// returns marketplace.ErrConversionInProgress.
func (s *ConversionService) ConvertOrder(ctx context.Context, orderID uuid.UUID) (*trade.Sale, error) {
	lockKey := "marketplace:convert:" + orderID.String()
	acquired, err := s.lock.Acquire(ctx, lockKey, s.lockCfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring conversion lock: %w", err)
	}
	if !acquired {
		return nil, marketplace.ErrConversionInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("failed to release conversion lock",
				zap.String("key", lockKey), zap.Error(err))
		}
	}()

	// Conversions of different orders can race to the same invoice number;
	// the loser's transaction fails on the unique index and re-runs with a
	// sequence advanced past the winner's.
	var sale *trade.Sale
	for attempt := 1; ; attempt++ {
		sale, err = s.convertInTx(ctx, orderID)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= maxConvertAttempts {
			break
		}
		s.logger.Warn("duplicate key during conversion, retrying",
			zap.String("order_id", orderID.String()),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order converted to sale",
		zap.String("marketplace", string(sale.Metadata.Marketplace)),
		zap.String("external_order_id", sale.Metadata.ExternalOrderID),
		zap.String("invoice_number", sale.InvoiceNumber))

	return sale, nil
}

// convertInTx runs one conversion attempt inside a single transaction
func (s *ConversionService) convertInTx(ctx context.Context, orderID uuid.UUID) (*trade.Sale, error) {
	var sale *trade.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if _, err := repos.Sales.FindByMarketplaceOrderID(ctx, order.ID); err == nil {
			return marketplace.ErrAlreadyConverted
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		customer, err := s.findOrCreateCustomer(ctx, repos, order)
		if err != nil {
			return err
		}

		sale, err = s.buildSale(ctx, repos, order, customer)
		if err != nil {
			return err
		}

		if err := repos.Sales.Save(ctx, sale); err != nil {
			return err
		}
		// persists product links established during item mapping
		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// findOrCreateCustomer matches the order's buyer to an existing customer by
// phone, creating one from the order snapshot when no match exists
func (s *ConversionService) findOrCreateCustomer(ctx context.Context, repos TxRepos, order *marketplace.Order) (*partner.Customer, error) {
	if phone := partner.NormalizePhone(order.Customer.Phone); phone != "" {
		customer, err := repos.Customers.FindByPhone(ctx, phone)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	name := order.Customer.Name
	if name == "" {
		name = fmt.Sprintf("%s Customer", order.Marketplace)
	}
	customer, err := partner.NewCustomer(name, order.Customer.Phone, partner.CustomerSourceMarketplace)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(order.Customer.Email, partner.Address{
		Street:  order.Customer.Address.Street,
		City:    order.Customer.Address.City,
		State:   order.Customer.Address.State,
		Pincode: order.Customer.Address.Pincode,
		Country: order.Customer.Address.Country,
	})
	if err := repos.Customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("created customer from marketplace order",
		zap.String("marketplace", order.Marketplace.String()),
		zap.String("customer_name", customer.Name))

	return customer, nil
}

// findOrCreateProduct resolves an order item to a catalog product: first by
// SKU, then by exact name match, finally by creating a zero-stock product
// flagged for stock review
func (s *ConversionService) findOrCreateProduct(ctx context.Context, repos TxRepos, order *marketplace.Order, item *marketplace.OrderItem) (*catalog.Product, error) {
	if item.SKU != "" {
		product, err := repos.Products.FindBySKU(ctx, item.SKU)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	product, err := repos.Products.FindByNameExact(ctx, item.ProductName)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err = catalog.NewMarketplaceProduct(
		order.Marketplace.String(), item.ExternalProductID, item.SKU, item.ProductName, item.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("created product from marketplace order item",
		zap.String("marketplace", order.Marketplace.String()),
		zap.String("sku", product.SKU),
		zap.String("product_name", product.Name))

	return product, nil
}

// buildSale assembles the sale, mapping every item and linking products back
// onto the order
func (s *ConversionService) buildSale(ctx context.Context, repos TxRepos, order *marketplace.Order, customer *partner.Customer) (*trade.Sale, error) {
	seq, err := repos.Sales.NextInvoiceSequence(ctx, order.OrderDate)
	if err != nil {
		return nil, err
	}

	sale, err := trade.NewSale(trade.FormatInvoiceNumber(order.OrderDate, seq), customer.ID, order.OrderDate)
	if err != nil {
		return nil, err
	}
	sale.Metadata = trade.SaleMetadata{
		Source:             trade.SaleSourceMarketplace,
		Marketplace:        order.Marketplace.String(),
		MarketplaceOrderID: &order.ID,
		ExternalOrderID:    order.ExternalOrderID,
	}

	for i := range order.Items {
		item := &order.Items[i]
		product, err := s.findOrCreateProduct(ctx, repos, order, item)
		if err != nil {
			return nil, err
		}
		order.LinkItemProduct(i, product.ID)

		saleItem, err := trade.NewSaleItem(sale.ID, product.ID, item.ProductName, product.SKU,
			item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return nil, err
		}
		sale.AddItem(saleItem)
	}

	// The marketplace total is authoritative; item sums can drift from it
	// when a marketplace omits line items entirely.
	sale.TotalAmount = order.TotalAmount

	if order.PaymentStatus == marketplace.PaymentStatusPaid {
		if err := sale.RecordPayment(order.TotalAmount, "online"); err != nil {
			return nil, err
		}
	} else {
		if err := sale.RecordPayment(decimal.Zero, "online"); err != nil {
			return nil, err
		}
	}

	if order.OrderStatus == marketplace.OrderStatusDelivered {
		sale.Complete()
	}

	return sale, nil
}
