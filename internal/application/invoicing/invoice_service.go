package invoicing

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/logger"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceControlService audits incoming carrier invoices against expected
// reference prices and drives the approval, dispute and payment workflow.
// Every workflow action persists under optimistic locking so concurrent
// operators never overwrite each other's transitions.
type InvoiceControlService struct {
	invoiceRepo invoicing.CarrierInvoiceRepository
	metrics     *telemetry.BusinessMetrics
}

// NewInvoiceControlService creates a new InvoiceControlService
func NewInvoiceControlService(invoiceRepo invoicing.CarrierInvoiceRepository) *InvoiceControlService {
	return &InvoiceControlService{invoiceRepo: invoiceRepo}
}

// SetBusinessMetrics attaches business metrics recording. Optional; the
// service works without it.
func (s *InvoiceControlService) SetBusinessMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// recordAuditOutcome maps the post-audit validation status onto an audit
// outcome metric. Pending invoices are not counted.
func (s *InvoiceControlService) recordAuditOutcome(ctx context.Context, tenantID uuid.UUID, status invoicing.ValidationStatus) {
	if s.metrics == nil {
		return
	}
	switch status {
	case invoicing.ValidationPassed:
		s.metrics.RecordInvoiceAudit(ctx, tenantID, telemetry.AuditOutcomePassed)
	case invoicing.ValidationFailed:
		s.metrics.RecordInvoiceAudit(ctx, tenantID, telemetry.AuditOutcomeFailed)
	case invoicing.ValidationManualReview:
		s.metrics.RecordInvoiceAudit(ctx, tenantID, telemetry.AuditOutcomeManualReview)
	}
}

// Register registers an incoming carrier invoice with its lines and runs the
// first audit pass
func (s *InvoiceControlService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterInvoiceRequest) (*InvoiceResponse, error) {
	// Check if the carrier already submitted this invoice number
	exists, err := s.invoiceRepo.ExistsByInvoiceNumber(ctx, tenantID, req.CarrierID, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice with this number already exists for this carrier")
	}

	currency := valueobject.Currency(req.Currency)
	inv, err := invoicing.NewCarrierInvoice(tenantID, req.InvoiceNumber, req.CarrierID, req.CarrierName, req.InvoiceDate, currency)
	if err != nil {
		return nil, err
	}
	inv.DueDate = req.DueDate

	for _, lr := range req.Lines {
		lineType := invoicing.LineType(lr.LineType)
		if !lineType.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown invoice line type "+lr.LineType)
		}
		line := invoicing.NewCarrierInvoiceLine(inv.ID, lr.LineNumber, lr.Description, lineType, lr.Quantity, lr.UnitPrice)
		line.DiscountRate = lr.DiscountRate
		line.DiscountAmount = lr.DiscountAmount
		line.TaxRate = lr.TaxRate
		line.TaxInclusive = lr.TaxInclusive
		line.ExpectedUnitPrice = lr.ExpectedUnitPrice
		line.ExpectedLineTotal = lr.ExpectedLineTotal
		line.RateID = lr.RateID
		line.ContractLineID = lr.ContractLineID
		if err := inv.AddLine(*line); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.recordAuditOutcome(ctx, tenantID, inv.ValidationStatus)

	logger.L(ctx).Info("carrier invoice registered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("validation_status", string(inv.ValidationStatus)),
		zap.Int("anomalies", len(inv.Anomalies)))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceControlService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List lists invoices with filtering and pagination
func (s *InvoiceControlService) List(ctx context.Context, tenantID uuid.UUID, filter invoicing.CarrierInvoiceFilter) (*ListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	return &ListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListPendingReview lists invoices awaiting review
func (s *InvoiceControlService) ListPendingReview(ctx context.Context, tenantID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindPendingReview(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	return items, nil
}

// AuditInvoice re-runs the full control pipeline on a stored invoice
func (s *InvoiceControlService) AuditInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	resp, err := s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		inv.Audit()
		return nil
	})
	if err == nil {
		s.recordAuditOutcome(ctx, tenantID, invoicing.ValidationStatus(resp.ValidationStatus))
	}
	return resp, err
}

// CorrectLine applies operator-corrected figures to a line and re-audits
func (s *InvoiceControlService) CorrectLine(ctx context.Context, tenantID, invoiceID uuid.UUID, req CorrectLineRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.CorrectLine(req.LineID, req.CorrectedUnitPrice, req.CorrectedLineTotal)
	})
}

// StartReview moves a received invoice into review
func (s *InvoiceControlService) StartReview(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.StartReview(req.ActorID, req.Notes)
	})
}

// Validate completes the review step
func (s *InvoiceControlService) Validate(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.MarkValidated(req.ActorID, req.Notes)
	})
}

// Approve clears a validated, control-passed invoice for payment
func (s *InvoiceControlService) Approve(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.Approve(req.ActorID, req.Notes)
	})
}

// Dispute opens a dispute over the invoice's anomalies
func (s *InvoiceControlService) Dispute(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.Dispute(req.ActorID, req.Notes)
	})
}

// ResolveDispute returns a disputed invoice to review
func (s *InvoiceControlService) ResolveDispute(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.ResolveDispute(req.ActorID, req.Notes)
	})
}

// Reject refuses the invoice and returns it to the carrier
func (s *InvoiceControlService) Reject(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.Reject(req.ActorID, req.Notes)
	})
}

// MarkPaid records the payment of an approved invoice
func (s *InvoiceControlService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.MarkPaid(req.ActorID, req.Notes)
	})
}

// RequireManualReview forces the invoice into review regardless of the
// normal guards
func (s *InvoiceControlService) RequireManualReview(ctx context.Context, tenantID, invoiceID uuid.UUID, req WorkflowActionRequest) (*InvoiceResponse, error) {
	return s.apply(ctx, tenantID, invoiceID, func(inv *invoicing.CarrierInvoice) error {
		return inv.RequireManualReview(req.ActorID, req.Notes)
	})
}

// apply loads the invoice, runs the mutation, and persists it under
// optimistic locking. A stale version surfaces as CONCURRENCY_CONFLICT from
// the repository.
func (s *InvoiceControlService) apply(ctx context.Context, tenantID, invoiceID uuid.UUID, mutate func(*invoicing.CarrierInvoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := mutate(inv); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("carrier invoice updated",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", string(inv.Status)),
		zap.String("validation_status", string(inv.ValidationStatus)))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}
