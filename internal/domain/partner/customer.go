package partner

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeBusiness   CustomerType = "business"
)

// CustomerSource records where a customer record originated
type CustomerSource string

const (
	CustomerSourceManual      CustomerSource = "manual"
	CustomerSourceMarketplace CustomerSource = "marketplace"
)

// Address is a customer's postal address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Customer is a buyer known to the business. Phone number is the primary
// lookup key when matching marketplace buyers to existing customers.
type Customer struct {
	shared.BaseEntity
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(20);index"`
	Email       string          `gorm:"type:varchar(200);index"`
	Address     Address         `gorm:"embedded;embeddedPrefix:address_"`
	Type        CustomerType    `gorm:"type:varchar(20);not null;default:'individual'"`
	Source      CustomerSource  `gorm:"type:varchar(20);not null;default:'manual'"`
	GSTNumber   string          `gorm:"type:varchar(20)"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Balance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes       string          `gorm:"type:text"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,14}$`)

// NewCustomer creates an active customer with the given identity fields
func NewCustomer(name, phone string, source CustomerSource) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "customer name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "customer name cannot exceed 200 characters")
	}
	phone = NormalizePhone(phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_PHONE", "customer phone number is malformed")
	}
	if source == "" {
		source = CustomerSourceManual
	}
	return &Customer{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Phone:       phone,
		Type:        CustomerTypeIndividual,
		Source:      source,
		CreditLimit: decimal.Zero,
		Balance:     decimal.Zero,
		IsActive:    true,
	}, nil
}

// NormalizePhone strips spaces and dashes so lookups compare digits only
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phone
}

// UpdateContact updates the customer's contact details
func (c *Customer) UpdateContact(email string, address Address) {
	c.Email = strings.TrimSpace(email)
	c.Address = address
	c.Touch()
}

// Deactivate marks the customer inactive without deleting history
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.Touch()
}
