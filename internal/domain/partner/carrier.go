package partner

import (
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierStatus represents the status of a carrier
type CarrierStatus string

const (
	CarrierStatusActive   CarrierStatus = "active"
	CarrierStatusInactive CarrierStatus = "inactive"
	CarrierStatusBlocked  CarrierStatus = "blocked" // Blocked due to quality/billing issues
)

// CarrierType represents the type of carrier
type CarrierType string

const (
	CarrierTypeRoadHaulier      CarrierType = "road_haulier"
	CarrierTypeRailOperator     CarrierType = "rail_operator"
	CarrierTypeOceanLine        CarrierType = "ocean_line"
	CarrierTypeAirline          CarrierType = "airline"
	CarrierTypeFreightForwarder CarrierType = "freight_forwarder"
)

// Carrier represents a transport carrier in the partner context
// It is the aggregate root for carrier-related operations
type Carrier struct {
	shared.TenantAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_carrier_tenant_code,priority:2"`
	Name           string          `gorm:"type:varchar(200);not null"`
	ShortName      string          `gorm:"type:varchar(100)"` // Abbreviated name
	Type           CarrierType     `gorm:"type:varchar(30);not null;default:'road_haulier'"`
	Status         CarrierStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SCAC           string          `gorm:"type:varchar(10)"` // Standard Carrier Alpha Code
	ContactName    string          `gorm:"type:varchar(100)"`
	Phone          string          `gorm:"type:varchar(50);index"`
	Email          string          `gorm:"type:varchar(200);index"`
	Address        string          `gorm:"type:text"`
	City           string          `gorm:"type:varchar(100)"`
	PostalCode     string          `gorm:"type:varchar(20)"`
	Country        string          `gorm:"type:varchar(2);default:'FR'"` // ISO 3166-1 alpha-2
	TaxID          string          `gorm:"type:varchar(50)"`
	IBAN           string          `gorm:"type:varchar(50)"`
	PaymentDays    int             `gorm:"not null;default:30"`                   // Invoice payment terms
	CreditLimit    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Maximum open payable amount
	Balance        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Current accounts payable balance
	OnTimeRating   int             `gorm:"not null;default:0;check:on_time_rating >= 0"` // Delivery performance (0-5)
	SupportedModes string          `gorm:"type:varchar(200)"`                            // Comma-separated transport modes
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Carrier) TableName() string {
	return "carriers"
}

// NewCarrier creates a new carrier with required fields
func NewCarrier(tenantID uuid.UUID, code, name string, carrierType CarrierType) (*Carrier, error) {
	if err := validateCarrierCode(code); err != nil {
		return nil, err
	}
	if err := validateCarrierName(name); err != nil {
		return nil, err
	}
	if err := validateCarrierType(carrierType); err != nil {
		return nil, err
	}

	carrier := &Carrier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Type:                carrierType,
		Status:              CarrierStatusActive,
		Country:             "FR",
		PaymentDays:         30,
		CreditLimit:         decimal.Zero,
		Balance:             decimal.Zero,
	}

	carrier.AddDomainEvent(NewCarrierCreatedEvent(carrier))

	return carrier, nil
}

// Update updates the carrier's basic information
func (c *Carrier) Update(name, shortName string) error {
	if err := validateCarrierName(name); err != nil {
		return err
	}
	if shortName != "" && len(shortName) > 100 {
		return shared.NewDomainError("INVALID_SHORT_NAME", "Short name cannot exceed 100 characters")
	}

	c.Name = name
	c.ShortName = shortName
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the carrier's contact information
func (c *Carrier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the carrier's address information
func (c *Carrier) SetAddress(address, city, postalCode, country string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if country != "" && len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}

	c.Address = address
	c.City = city
	c.PostalCode = postalCode
	if country != "" {
		c.Country = strings.ToUpper(country)
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSCAC sets the carrier's Standard Carrier Alpha Code
func (c *Carrier) SetSCAC(scac string) error {
	if scac != "" && (len(scac) < 2 || len(scac) > 4) {
		return shared.NewDomainError("INVALID_SCAC", "SCAC must be 2 to 4 characters")
	}
	c.SCAC = strings.ToUpper(scac)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetPaymentTerms sets the carrier's invoice payment terms
func (c *Carrier) SetPaymentTerms(paymentDays int, creditLimit decimal.Decimal) error {
	if paymentDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_DAYS", "Payment days cannot be negative")
	}
	if paymentDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_DAYS", "Payment days cannot exceed 365")
	}
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.PaymentDays = paymentDays
	c.CreditLimit = creditLimit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSupportedModes sets the transport modes the carrier operates
func (c *Carrier) SetSupportedModes(modes []tariff.TransportMode) error {
	values := make([]string, 0, len(modes))
	for _, mode := range modes {
		if !mode.IsValid() {
			return shared.NewDomainError("INVALID_TRANSPORT_MODE", "Unknown transport mode "+mode.String())
		}
		values = append(values, mode.String())
	}

	c.SupportedModes = strings.Join(values, ",")
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SupportsMode reports whether the carrier operates the given transport mode.
// A carrier with no configured modes is treated as unrestricted.
func (c *Carrier) SupportsMode(mode tariff.TransportMode) bool {
	if c.SupportedModes == "" {
		return true
	}
	for _, v := range strings.Split(c.SupportedModes, ",") {
		if v == mode.String() {
			return true
		}
	}
	return false
}

// SetOnTimeRating sets the carrier's delivery performance rating (0-5)
func (c *Carrier) SetOnTimeRating(rating int) error {
	if rating < 0 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}

	c.OnTimeRating = rating
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AddBalance adds to the carrier's accounts payable balance (invoice approved)
func (c *Carrier) AddBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// DeductBalance deducts from the carrier's accounts payable balance (invoice paid)
func (c *Carrier) DeductBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if c.Balance.LessThan(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount exceeds current balance")
	}

	c.Balance = c.Balance.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the carrier
func (c *Carrier) Activate() error {
	if c.Status == CarrierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Carrier is already active")
	}

	oldStatus := c.Status
	c.Status = CarrierStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCarrierStatusChangedEvent(c, oldStatus, CarrierStatusActive))

	return nil
}

// Deactivate deactivates the carrier
func (c *Carrier) Deactivate() error {
	if c.Status == CarrierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Carrier is already inactive")
	}

	oldStatus := c.Status
	c.Status = CarrierStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCarrierStatusChangedEvent(c, oldStatus, CarrierStatusInactive))

	return nil
}

// Block blocks the carrier (e.g., repeated billing anomalies)
func (c *Carrier) Block() error {
	if c.Status == CarrierStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Carrier is already blocked")
	}

	oldStatus := c.Status
	c.Status = CarrierStatusBlocked
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCarrierStatusChangedEvent(c, oldStatus, CarrierStatusBlocked))

	return nil
}

// IsActive returns true if the carrier is active
func (c *Carrier) IsActive() bool {
	return c.Status == CarrierStatusActive
}

// IsBlocked returns true if the carrier is blocked
func (c *Carrier) IsBlocked() bool {
	return c.Status == CarrierStatusBlocked
}

// Validation functions

func validateCarrierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Carrier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Carrier code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Carrier code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCarrierName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Carrier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Carrier name cannot exceed 200 characters")
	}
	return nil
}

func validateCarrierType(t CarrierType) error {
	switch t {
	case CarrierTypeRoadHaulier, CarrierTypeRailOperator, CarrierTypeOceanLine,
		CarrierTypeAirline, CarrierTypeFreightForwarder:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid carrier type")
	}
}

// validatePhone and validateEmail are defined in validation.go
