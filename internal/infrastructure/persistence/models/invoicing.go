package models

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierInvoiceModel is the persistence model for the CarrierInvoice
// aggregate root. Lines, anomalies and the transition audit trail are JSONB
// documents; the invoice is always loaded and saved as one unit so the audit
// pipeline never sees a partial aggregate.
type CarrierInvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_carrier_number,priority:2"`
	CarrierID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoice_tenant_carrier_number,priority:3"`
	CarrierName   string     `gorm:"type:varchar(200)"`
	InvoiceDate   time.Time  `gorm:"not null;index"`
	DueDate       *time.Time `gorm:"index"`
	Currency      string     `gorm:"type:varchar(3);not null"`

	Status           string `gorm:"type:varchar(20);not null;default:'received';index"`
	ValidationStatus string `gorm:"type:varchar(20);not null;default:'pending';index"`

	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VarianceAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VariancePercentage decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`

	Lines       []invoicing.CarrierInvoiceLine `gorm:"type:jsonb;serializer:json"`
	Anomalies   []invoicing.Anomaly            `gorm:"type:jsonb;serializer:json"`
	Transitions []invoicing.StatusTransition   `gorm:"type:jsonb;serializer:json"`

	RequiresManualReview bool   `gorm:"not null;default:false;index"`
	NextAction           string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (CarrierInvoiceModel) TableName() string {
	return "carrier_invoices"
}

// ToDomain converts the persistence model to a domain CarrierInvoice entity.
func (m *CarrierInvoiceModel) ToDomain() *invoicing.CarrierInvoice {
	inv := &invoicing.CarrierInvoice{
		InvoiceNumber:        m.InvoiceNumber,
		CarrierID:            m.CarrierID,
		CarrierName:          m.CarrierName,
		InvoiceDate:          m.InvoiceDate,
		DueDate:              m.DueDate,
		Currency:             valueobject.Currency(m.Currency),
		Status:               invoicing.InvoiceStatus(m.Status),
		ValidationStatus:     invoicing.ValidationStatus(m.ValidationStatus),
		TotalAmount:          m.TotalAmount,
		ExpectedAmount:       m.ExpectedAmount,
		VarianceAmount:       m.VarianceAmount,
		VariancePercentage:   m.VariancePercentage,
		Lines:                m.Lines,
		Anomalies:            m.Anomalies,
		RequiresManualReview: m.RequiresManualReview,
		NextAction:           invoicing.NextAction(m.NextAction),
		Transitions:          m.Transitions,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain CarrierInvoice entity.
func (m *CarrierInvoiceModel) FromDomain(inv *invoicing.CarrierInvoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CarrierID = inv.CarrierID
	m.CarrierName = inv.CarrierName
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.Currency = string(inv.Currency)
	m.Status = string(inv.Status)
	m.ValidationStatus = string(inv.ValidationStatus)
	m.TotalAmount = inv.TotalAmount
	m.ExpectedAmount = inv.ExpectedAmount
	m.VarianceAmount = inv.VarianceAmount
	m.VariancePercentage = inv.VariancePercentage
	m.Lines = inv.Lines
	m.Anomalies = inv.Anomalies
	m.Transitions = inv.Transitions
	m.RequiresManualReview = inv.RequiresManualReview
	m.NextAction = string(inv.NextAction)
}

// CarrierInvoiceModelFromDomain creates a new persistence model from a domain CarrierInvoice.
func CarrierInvoiceModelFromDomain(inv *invoicing.CarrierInvoice) *CarrierInvoiceModel {
	m := &CarrierInvoiceModel{}
	m.FromDomain(inv)
	return m
}
