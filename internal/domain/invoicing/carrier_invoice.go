package invoicing

import (
	"fmt"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the workflow status of a carrier invoice
type InvoiceStatus string

const (
	StatusReceived    InvoiceStatus = "received"
	StatusUnderReview InvoiceStatus = "under_review"
	StatusValidated   InvoiceStatus = "validated"
	StatusDisputed    InvoiceStatus = "disputed"
	StatusApproved    InvoiceStatus = "approved"
	StatusRejected    InvoiceStatus = "rejected"
	StatusPaid        InvoiceStatus = "paid"
)

// IsValid checks if the status is a known value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusReceived, StatusUnderReview, StatusValidated,
		StatusDisputed, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that admit no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusPaid
}

// ValidationStatus is the automated control outcome of an invoice
type ValidationStatus string

const (
	ValidationPending      ValidationStatus = "pending"
	ValidationPassed       ValidationStatus = "passed"
	ValidationFailed       ValidationStatus = "failed"
	ValidationManualReview ValidationStatus = "manual_review"
)

// IsValid checks if the validation status is a known value
func (s ValidationStatus) IsValid() bool {
	switch s {
	case ValidationPending, ValidationPassed, ValidationFailed, ValidationManualReview:
		return true
	}
	return false
}

// NextAction guides the surrounding workflow after a transition
type NextAction string

const (
	NextActionPayment         NextAction = "payment"
	NextActionReturnToCarrier NextAction = "return_to_carrier"
	NextActionResolveDispute  NextAction = "resolve_dispute"
)

// StatusTransition is the audit record of one status change
type StatusTransition struct {
	From       InvoiceStatus `json:"from"`
	To         InvoiceStatus `json:"to"`
	ActorID    uuid.UUID     `json:"actor_id"`
	Notes      string        `json:"notes,omitempty"`
	NextAction NextAction    `json:"next_action,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// CarrierInvoice is a carrier-submitted invoice aggregate: its lines are
// audited against expected reference prices, anomalies roll up into an
// invoice-level risk, and a guarded state machine drives the approval,
// dispute and payment workflow. Status transitions are the only legal way
// to change status; persistence applies them under optimistic locking.
type CarrierInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string               `json:"invoice_number"`
	CarrierID     uuid.UUID            `json:"carrier_id"`
	CarrierName   string               `json:"carrier_name"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	Currency      valueobject.Currency `json:"currency"`

	Status           InvoiceStatus    `json:"status"`
	ValidationStatus ValidationStatus `json:"validation_status"`

	TotalAmount        decimal.Decimal `json:"total_amount"`
	ExpectedAmount     decimal.Decimal `json:"expected_amount"`
	VarianceAmount     decimal.Decimal `json:"variance_amount"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`

	Lines     []CarrierInvoiceLine `json:"lines"`
	Anomalies []Anomaly            `json:"anomalies,omitempty"`

	RequiresManualReview bool               `json:"requires_manual_review"`
	NextAction           NextAction         `json:"next_action,omitempty"`
	Transitions          []StatusTransition `json:"transitions"`
}

// NewCarrierInvoice creates an invoice in received status
func NewCarrierInvoice(tenantID uuid.UUID, invoiceNumber string, carrierID uuid.UUID, carrierName string, invoiceDate time.Time, currency valueobject.Currency) (*CarrierInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if carrierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier ID cannot be empty")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INVOICE_DATE", "Invoice date is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	inv := &CarrierInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CarrierID:           carrierID,
		CarrierName:         carrierName,
		InvoiceDate:         invoiceDate,
		Currency:            currency,
		Status:              StatusReceived,
		ValidationStatus:    ValidationPending,
		Lines:               make([]CarrierInvoiceLine, 0),
		Transitions:         make([]StatusTransition, 0),
	}

	inv.AddDomainEvent(NewCarrierInvoiceReceivedEvent(inv))

	return inv, nil
}

// AddLine appends a line and re-runs the control pipeline
func (inv *CarrierInvoice) AddLine(line CarrierInvoiceLine) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	line.InvoiceID = inv.ID
	inv.Lines = append(inv.Lines, line)
	inv.Audit()
	return nil
}

// CorrectLine applies operator-supplied corrected figures to a line and
// re-runs the control pipeline
func (inv *CarrierInvoice) CorrectLine(lineID uuid.UUID, unitPrice, lineTotal *decimal.Decimal) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	for i := range inv.Lines {
		if inv.Lines[i].ID == lineID {
			inv.Lines[i].Correct(unitPrice, lineTotal)
			inv.Audit()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", fmt.Sprintf("Invoice line %s not found", lineID))
}

// Audit re-runs the full control pipeline: every line is audited, anomalies
// roll up in line order, totals and variance are recomputed, and the
// validation status is re-derived. Runs on every line insert or update.
func (inv *CarrierInvoice) Audit() {
	total := decimal.Zero
	expected := decimal.Zero
	anomalies := make([]Anomaly, 0)

	for i := range inv.Lines {
		inv.Lines[i].Audit()
		total = total.Add(inv.Lines[i].FinalLineTotal())
		expected = expected.Add(inv.Lines[i].ExpectedLineTotal)
		anomalies = append(anomalies, inv.Lines[i].Anomalies...)
	}

	inv.TotalAmount = total
	inv.ExpectedAmount = expected
	inv.VarianceAmount = total.Sub(expected)
	inv.VariancePercentage = variancePercentage(total, expected)
	inv.Anomalies = anomalies

	if inv.RequiresManualReview {
		inv.ValidationStatus = ValidationManualReview
	} else if inv.hasAnomalyAtLeast(SeverityHigh) {
		inv.ValidationStatus = ValidationFailed
	} else {
		inv.ValidationStatus = ValidationPassed
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

func (inv *CarrierInvoice) hasAnomalyAtLeast(severity AnomalySeverity) bool {
	for _, a := range inv.Anomalies {
		if a.Severity.AtLeast(severity) {
			return true
		}
	}
	return false
}

// RiskLevel derives the invoice risk from its anomalies and variance
// magnitude. Critical beats high beats medium beats low; variance thresholds
// are strict comparisons.
func (inv *CarrierInvoice) RiskLevel() RiskLevel {
	absPct := inv.VariancePercentage.Abs()
	switch {
	case inv.hasAnomalyAtLeast(SeverityCritical) || absPct.GreaterThan(decimal.NewFromInt(20)):
		return RiskCritical
	case inv.hasAnomalyAtLeast(SeverityHigh) || absPct.GreaterThan(decimal.NewFromInt(10)):
		return RiskHigh
	case len(inv.Anomalies) > 0 || absPct.GreaterThan(decimal.NewFromInt(5)):
		return RiskMedium
	default:
		return RiskLow
	}
}

// invalidTransition builds the guard-failure error with enough context for
// an operator to understand what was attempted
func (inv *CarrierInvoice) invalidTransition(action string) error {
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("Cannot %s invoice %s in %s status", action, inv.InvoiceNumber, inv.Status))
}

// recordTransition applies the status change and its audit record
func (inv *CarrierInvoice) recordTransition(to InvoiceStatus, actorID uuid.UUID, notes string, next NextAction) {
	inv.Transitions = append(inv.Transitions, StatusTransition{
		From:       inv.Status,
		To:         to,
		ActorID:    actorID,
		Notes:      notes,
		NextAction: next,
		OccurredAt: time.Now(),
	})
	inv.Status = to
	inv.NextAction = next
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// Guards

// CanBeApproved requires a validated invoice that passed automated control
func (inv *CarrierInvoice) CanBeApproved() bool {
	return inv.Status == StatusValidated && inv.ValidationStatus == ValidationPassed
}

// CanBeDisputed requires a validated invoice with at least one anomaly
func (inv *CarrierInvoice) CanBeDisputed() bool {
	return inv.Status == StatusValidated && len(inv.Anomalies) > 0
}

// CanBeRejected is allowed from any non-terminal pre-payment status
func (inv *CarrierInvoice) CanBeRejected() bool {
	switch inv.Status {
	case StatusReceived, StatusUnderReview, StatusValidated, StatusDisputed:
		return true
	}
	return false
}

// CanBePaid requires an approved invoice
func (inv *CarrierInvoice) CanBePaid() bool {
	return inv.Status == StatusApproved
}

// Transitions

// StartReview moves a received invoice into review
func (inv *CarrierInvoice) StartReview(actorID uuid.UUID, notes string) error {
	if inv.Status != StatusReceived {
		return inv.invalidTransition("start review on")
	}
	inv.recordTransition(StatusUnderReview, actorID, notes, "")
	return nil
}

// MarkValidated completes the review step
func (inv *CarrierInvoice) MarkValidated(actorID uuid.UUID, notes string) error {
	if inv.Status != StatusUnderReview {
		return inv.invalidTransition("validate")
	}
	inv.recordTransition(StatusValidated, actorID, notes, "")
	inv.AddDomainEvent(NewCarrierInvoiceValidatedEvent(inv))
	return nil
}

// Approve clears the invoice for payment
func (inv *CarrierInvoice) Approve(actorID uuid.UUID, notes string) error {
	if !inv.CanBeApproved() {
		return inv.invalidTransition("approve")
	}
	inv.recordTransition(StatusApproved, actorID, notes, NextActionPayment)
	inv.AddDomainEvent(NewCarrierInvoiceApprovedEvent(inv, actorID))
	return nil
}

// Dispute opens a dispute over the invoice's anomalies
func (inv *CarrierInvoice) Dispute(actorID uuid.UUID, notes string) error {
	if !inv.CanBeDisputed() {
		return inv.invalidTransition("dispute")
	}
	inv.recordTransition(StatusDisputed, actorID, notes, NextActionResolveDispute)
	inv.AddDomainEvent(NewCarrierInvoiceDisputedEvent(inv, actorID))
	return nil
}

// ResolveDispute returns a disputed invoice to review. Resolution itself is
// manual; the calling workflow decides when to invoke this.
func (inv *CarrierInvoice) ResolveDispute(actorID uuid.UUID, notes string) error {
	if inv.Status != StatusDisputed {
		return inv.invalidTransition("resolve dispute on")
	}
	inv.recordTransition(StatusUnderReview, actorID, notes, "")
	return nil
}

// Reject refuses the invoice and returns it to the carrier
func (inv *CarrierInvoice) Reject(actorID uuid.UUID, notes string) error {
	if !inv.CanBeRejected() {
		return inv.invalidTransition("reject")
	}
	inv.recordTransition(StatusRejected, actorID, notes, NextActionReturnToCarrier)
	inv.AddDomainEvent(NewCarrierInvoiceRejectedEvent(inv, actorID))
	return nil
}

// MarkPaid records the payment of an approved invoice
func (inv *CarrierInvoice) MarkPaid(actorID uuid.UUID, notes string) error {
	if !inv.CanBePaid() {
		return inv.invalidTransition("pay")
	}
	inv.recordTransition(StatusPaid, actorID, notes, "")
	inv.AddDomainEvent(NewCarrierInvoicePaidEvent(inv, actorID))
	return nil
}

// RequireManualReview forces the invoice into review regardless of the
// normal guards. An escape hatch for any non-terminal state.
func (inv *CarrierInvoice) RequireManualReview(actorID uuid.UUID, reason string) error {
	if inv.Status.IsTerminal() {
		return inv.invalidTransition("force review on")
	}
	inv.RequiresManualReview = true
	inv.ValidationStatus = ValidationManualReview
	if inv.Status != StatusUnderReview {
		inv.recordTransition(StatusUnderReview, actorID, reason, "")
	} else {
		inv.UpdatedAt = time.Now()
		inv.IncrementVersion()
	}
	return nil
}
