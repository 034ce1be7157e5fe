package invoicing

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterInvoiceLineRequest is one billed position of an incoming invoice
type RegisterInvoiceLineRequest struct {
	LineNumber  int    `json:"line_number" binding:"required,min=1"`
	Description string `json:"description"`
	LineType    string `json:"line_type" binding:"required"`

	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`

	DiscountRate   *decimal.Decimal `json:"discount_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	TaxRate        decimal.Decimal  `json:"tax_rate"`
	TaxInclusive   bool             `json:"tax_inclusive"`

	ExpectedUnitPrice decimal.Decimal `json:"expected_unit_price"`
	ExpectedLineTotal decimal.Decimal `json:"expected_line_total"`

	RateID         *uuid.UUID `json:"rate_id"`
	ContractLineID *uuid.UUID `json:"contract_line_id"`
}

// RegisterInvoiceRequest registers an incoming carrier invoice with its lines
type RegisterInvoiceRequest struct {
	InvoiceNumber string                       `json:"invoice_number" binding:"required"`
	CarrierID     uuid.UUID                    `json:"carrier_id" binding:"required"`
	CarrierName   string                       `json:"carrier_name"`
	InvoiceDate   time.Time                    `json:"invoice_date" binding:"required"`
	DueDate       *time.Time                   `json:"due_date"`
	Currency      string                       `json:"currency"`
	Lines         []RegisterInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// WorkflowActionRequest carries the actor and note of a status transition
type WorkflowActionRequest struct {
	ActorID uuid.UUID `json:"actor_id" binding:"required"`
	Notes   string    `json:"notes"`
}

// CorrectLineRequest applies operator-corrected figures to a line
type CorrectLineRequest struct {
	LineID             uuid.UUID        `json:"line_id" binding:"required"`
	CorrectedUnitPrice *decimal.Decimal `json:"corrected_unit_price"`
	CorrectedLineTotal *decimal.Decimal `json:"corrected_line_total"`
}

// InvoiceLineResponse is the API shape of an audited invoice line
type InvoiceLineResponse struct {
	ID          uuid.UUID `json:"id"`
	LineNumber  int       `json:"line_number"`
	Description string    `json:"description"`
	LineType    string    `json:"line_type"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`

	ExpectedUnitPrice decimal.Decimal `json:"expected_unit_price"`
	ExpectedLineTotal decimal.Decimal `json:"expected_line_total"`

	FinalUnitPrice decimal.Decimal `json:"final_unit_price"`
	FinalLineTotal decimal.Decimal `json:"final_line_total"`

	PriceVariance           decimal.Decimal `json:"price_variance"`
	PriceVariancePercentage decimal.Decimal `json:"price_variance_percentage"`

	ValidationStatus string              `json:"validation_status"`
	HasAnomaly       bool                `json:"has_anomaly"`
	Anomalies        []invoicing.Anomaly `json:"anomalies,omitempty"`
}

// InvoiceResponse is the API shape of a carrier invoice with its audit result
type InvoiceResponse struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	CarrierID     uuid.UUID  `json:"carrier_id"`
	CarrierName   string     `json:"carrier_name"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Currency      string     `json:"currency"`

	Status           string `json:"status"`
	ValidationStatus string `json:"validation_status"`

	TotalAmount        decimal.Decimal `json:"total_amount"`
	ExpectedAmount     decimal.Decimal `json:"expected_amount"`
	VarianceAmount     decimal.Decimal `json:"variance_amount"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`

	RiskLevel            string                       `json:"risk_level"`
	RequiresManualReview bool                         `json:"requires_manual_review"`
	NextAction           string                       `json:"next_action,omitempty"`
	Anomalies            []invoicing.Anomaly          `json:"anomalies,omitempty"`
	Lines                []InvoiceLineResponse        `json:"lines"`
	Transitions          []invoicing.StatusTransition `json:"transitions,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToInvoiceLineResponse converts a domain line to a response DTO
func ToInvoiceLineResponse(l *invoicing.CarrierInvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		ID:                      l.ID,
		LineNumber:              l.LineNumber,
		Description:             l.Description,
		LineType:                string(l.LineType),
		Quantity:                l.Quantity,
		UnitPrice:               l.UnitPrice,
		LineTotal:               l.LineTotal,
		ExpectedUnitPrice:       l.ExpectedUnitPrice,
		ExpectedLineTotal:       l.ExpectedLineTotal,
		FinalUnitPrice:          l.FinalUnitPrice(),
		FinalLineTotal:          l.FinalLineTotal(),
		PriceVariance:           l.PriceVariance,
		PriceVariancePercentage: l.PriceVariancePercentage,
		ValidationStatus:        string(l.ValidationStatus),
		HasAnomaly:              l.HasAnomaly,
		Anomalies:               l.Anomalies,
	}
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *invoicing.CarrierInvoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(inv.Lines))
	for i := range inv.Lines {
		lines = append(lines, ToInvoiceLineResponse(&inv.Lines[i]))
	}
	return InvoiceResponse{
		ID:                   inv.ID,
		InvoiceNumber:        inv.InvoiceNumber,
		CarrierID:            inv.CarrierID,
		CarrierName:          inv.CarrierName,
		InvoiceDate:          inv.InvoiceDate,
		DueDate:              inv.DueDate,
		Currency:             string(inv.Currency),
		Status:               string(inv.Status),
		ValidationStatus:     string(inv.ValidationStatus),
		TotalAmount:          inv.TotalAmount,
		ExpectedAmount:       inv.ExpectedAmount,
		VarianceAmount:       inv.VarianceAmount,
		VariancePercentage:   inv.VariancePercentage,
		RiskLevel:            string(inv.RiskLevel()),
		RequiresManualReview: inv.RequiresManualReview,
		NextAction:           string(inv.NextAction),
		Anomalies:            inv.Anomalies,
		Lines:                lines,
		Transitions:          inv.Transitions,
		Version:              inv.Version,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
}

// ListResponse wraps a paged collection of invoices
type ListResponse struct {
	Items    []InvoiceResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
