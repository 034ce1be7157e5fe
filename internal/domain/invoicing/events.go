package invoicing

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierInvoiceReceivedEvent is raised when a carrier invoice enters the system
type CarrierInvoiceReceivedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CarrierID     uuid.UUID `json:"carrier_id"`
	CarrierName   string    `json:"carrier_name"`
	InvoiceDate   time.Time `json:"invoice_date"`
}

// EventType returns the event type name
func (e *CarrierInvoiceReceivedEvent) EventType() string {
	return "CarrierInvoiceReceived"
}

// NewCarrierInvoiceReceivedEvent creates a new CarrierInvoiceReceivedEvent
func NewCarrierInvoiceReceivedEvent(inv *CarrierInvoice) *CarrierInvoiceReceivedEvent {
	return &CarrierInvoiceReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierInvoiceReceived", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CarrierID:       inv.CarrierID,
		CarrierName:     inv.CarrierName,
		InvoiceDate:     inv.InvoiceDate,
	}
}

// CarrierInvoiceValidatedEvent is raised when the review step completes
type CarrierInvoiceValidatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID        uuid.UUID        `json:"invoice_id"`
	InvoiceNumber    string           `json:"invoice_number"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	AnomalyCount     int              `json:"anomaly_count"`
	RiskLevel        RiskLevel        `json:"risk_level"`
}

// EventType returns the event type name
func (e *CarrierInvoiceValidatedEvent) EventType() string {
	return "CarrierInvoiceValidated"
}

// NewCarrierInvoiceValidatedEvent creates a new CarrierInvoiceValidatedEvent
func NewCarrierInvoiceValidatedEvent(inv *CarrierInvoice) *CarrierInvoiceValidatedEvent {
	return &CarrierInvoiceValidatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("CarrierInvoiceValidated", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:        inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		ValidationStatus: inv.ValidationStatus,
		AnomalyCount:     len(inv.Anomalies),
		RiskLevel:        inv.RiskLevel(),
	}
}

// CarrierInvoiceApprovedEvent is raised when an invoice is cleared for payment
type CarrierInvoiceApprovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CarrierID     uuid.UUID       `json:"carrier_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
}

// EventType returns the event type name
func (e *CarrierInvoiceApprovedEvent) EventType() string {
	return "CarrierInvoiceApproved"
}

// NewCarrierInvoiceApprovedEvent creates a new CarrierInvoiceApprovedEvent
func NewCarrierInvoiceApprovedEvent(inv *CarrierInvoice, actorID uuid.UUID) *CarrierInvoiceApprovedEvent {
	return &CarrierInvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierInvoiceApproved", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CarrierID:       inv.CarrierID,
		TotalAmount:     inv.TotalAmount,
		ApprovedBy:      actorID,
	}
}

// CarrierInvoiceDisputedEvent is raised when a dispute is opened
type CarrierInvoiceDisputedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CarrierID      uuid.UUID       `json:"carrier_id"`
	VarianceAmount decimal.Decimal `json:"variance_amount"`
	AnomalyCount   int             `json:"anomaly_count"`
	DisputedBy     uuid.UUID       `json:"disputed_by"`
}

// EventType returns the event type name
func (e *CarrierInvoiceDisputedEvent) EventType() string {
	return "CarrierInvoiceDisputed"
}

// NewCarrierInvoiceDisputedEvent creates a new CarrierInvoiceDisputedEvent
func NewCarrierInvoiceDisputedEvent(inv *CarrierInvoice, actorID uuid.UUID) *CarrierInvoiceDisputedEvent {
	return &CarrierInvoiceDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierInvoiceDisputed", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CarrierID:       inv.CarrierID,
		VarianceAmount:  inv.VarianceAmount,
		AnomalyCount:    len(inv.Anomalies),
		DisputedBy:      actorID,
	}
}

// CarrierInvoiceRejectedEvent is raised when an invoice is refused
type CarrierInvoiceRejectedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CarrierID     uuid.UUID `json:"carrier_id"`
	RejectedBy    uuid.UUID `json:"rejected_by"`
}

// EventType returns the event type name
func (e *CarrierInvoiceRejectedEvent) EventType() string {
	return "CarrierInvoiceRejected"
}

// NewCarrierInvoiceRejectedEvent creates a new CarrierInvoiceRejectedEvent
func NewCarrierInvoiceRejectedEvent(inv *CarrierInvoice, actorID uuid.UUID) *CarrierInvoiceRejectedEvent {
	return &CarrierInvoiceRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierInvoiceRejected", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CarrierID:       inv.CarrierID,
		RejectedBy:      actorID,
	}
}

// CarrierInvoicePaidEvent is raised when payment is recorded
type CarrierInvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CarrierID     uuid.UUID       `json:"carrier_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidBy        uuid.UUID       `json:"paid_by"`
}

// EventType returns the event type name
func (e *CarrierInvoicePaidEvent) EventType() string {
	return "CarrierInvoicePaid"
}

// NewCarrierInvoicePaidEvent creates a new CarrierInvoicePaidEvent
func NewCarrierInvoicePaidEvent(inv *CarrierInvoice, actorID uuid.UUID) *CarrierInvoicePaidEvent {
	return &CarrierInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierInvoicePaid", "CarrierInvoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CarrierID:       inv.CarrierID,
		TotalAmount:     inv.TotalAmount,
		PaidBy:          actorID,
	}
}
