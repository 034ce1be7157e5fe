package invoicing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineType classifies what an invoice line bills for
type LineType string

const (
	LineTypeTransport LineType = "transport"
	LineTypeSurcharge LineType = "surcharge"
	LineTypeTax       LineType = "tax"
	LineTypeOther     LineType = "other"
)

// IsValid checks if the line type is a known value
func (t LineType) IsValid() bool {
	switch t {
	case LineTypeTransport, LineTypeSurcharge, LineTypeTax, LineTypeOther:
		return true
	}
	return false
}

// LineValidationStatus is the per-line review outcome
type LineValidationStatus string

const (
	LineStatusPending   LineValidationStatus = "pending"
	LineStatusValidated LineValidationStatus = "validated"
	LineStatusDisputed  LineValidationStatus = "disputed"
	LineStatusCorrected LineValidationStatus = "corrected"
)

// IsValid checks if the line validation status is a known value
func (s LineValidationStatus) IsValid() bool {
	switch s {
	case LineStatusPending, LineStatusValidated, LineStatusDisputed, LineStatusCorrected:
		return true
	}
	return false
}

// CarrierInvoiceLine is one billed position of a carrier invoice, audited
// against its expected reference price. Corrected figures, when present,
// always take precedence over the billed ones.
type CarrierInvoiceLine struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	LineNumber  int       `json:"line_number"`
	Description string    `json:"description"`
	LineType    LineType  `json:"line_type"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`

	DiscountRate   *decimal.Decimal `json:"discount_rate,omitempty"`   // percent
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"` // fixed
	TaxRate        decimal.Decimal  `json:"tax_rate"`                  // percent
	TaxInclusive   bool             `json:"tax_inclusive"`
	TaxAmount      decimal.Decimal  `json:"tax_amount"`

	ExpectedUnitPrice decimal.Decimal `json:"expected_unit_price"`
	ExpectedLineTotal decimal.Decimal `json:"expected_line_total"`

	// References back to the rating engine; absent for uncontracted services.
	RateID         *uuid.UUID `json:"rate_id,omitempty"`
	ContractLineID *uuid.UUID `json:"contract_line_id,omitempty"`

	PriceVariance           decimal.Decimal `json:"price_variance"`
	PriceVariancePercentage decimal.Decimal `json:"price_variance_percentage"`

	ValidationStatus LineValidationStatus `json:"validation_status"`
	HasAnomaly       bool                 `json:"has_anomaly"`
	AnomalySeverity  AnomalySeverity      `json:"anomaly_severity,omitempty"`
	Anomalies        []Anomaly            `json:"anomalies,omitempty"`

	CorrectedUnitPrice *decimal.Decimal `json:"corrected_unit_price,omitempty"`
	CorrectedLineTotal *decimal.Decimal `json:"corrected_line_total,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCarrierInvoiceLine creates a line in pending validation status.
// Totals and audit figures are computed by the invoice's audit pass.
func NewCarrierInvoiceLine(invoiceID uuid.UUID, lineNumber int, description string, lineType LineType, quantity, unitPrice decimal.Decimal) *CarrierInvoiceLine {
	now := time.Now()
	return &CarrierInvoiceLine{
		ID:               uuid.New(),
		InvoiceID:        invoiceID,
		LineNumber:       lineNumber,
		Description:      description,
		LineType:         lineType,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		ValidationStatus: LineStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// FinalUnitPrice returns the corrected unit price when set, the billed one
// otherwise
func (l *CarrierInvoiceLine) FinalUnitPrice() decimal.Decimal {
	if l.CorrectedUnitPrice != nil {
		return *l.CorrectedUnitPrice
	}
	return l.UnitPrice
}

// FinalLineTotal returns the corrected line total when set, the computed one
// otherwise
func (l *CarrierInvoiceLine) FinalLineTotal() decimal.Decimal {
	if l.CorrectedLineTotal != nil {
		return *l.CorrectedLineTotal
	}
	return l.LineTotal
}

// CalculateLineTotal computes the line total from quantity and unit price:
// gross, minus discount (rate takes effect before a fixed amount), then tax.
// Tax-exclusive lines add the tax on top; tax-inclusive lines extract the
// contained tax without changing the total. Pure: same inputs, same output.
func (l *CarrierInvoiceLine) CalculateLineTotal() {
	hundred := decimal.NewFromInt(100)
	total := l.Quantity.Mul(l.UnitPrice)

	if l.DiscountRate != nil {
		total = total.Sub(total.Mul(*l.DiscountRate).Div(hundred))
	}
	if l.DiscountAmount != nil {
		total = total.Sub(*l.DiscountAmount)
	}

	if l.TaxRate.IsPositive() {
		if l.TaxInclusive {
			l.TaxAmount = total.Mul(l.TaxRate).Div(hundred.Add(l.TaxRate))
		} else {
			l.TaxAmount = total.Mul(l.TaxRate).Div(hundred)
			total = total.Add(l.TaxAmount)
		}
	} else {
		l.TaxAmount = decimal.Zero
	}

	l.LineTotal = total
}

// variancePercentage computes (actual - expected) / expected * 100, zero when
// the expected value is zero
func variancePercentage(actual, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return actual.Sub(expected).Div(expected).Mul(decimal.NewFromInt(100))
}

// CalculatePriceVariance computes the unit-price and line-total variance and
// keeps whichever has the larger absolute percentage as the line's reported
// variance. A line can look fine on unit price but bad on total when the
// quantity was also miscoded.
func (l *CarrierInvoiceLine) CalculatePriceVariance() {
	unitDelta := l.FinalUnitPrice().Sub(l.ExpectedUnitPrice)
	unitPct := variancePercentage(l.FinalUnitPrice(), l.ExpectedUnitPrice)

	totalDelta := l.FinalLineTotal().Sub(l.ExpectedLineTotal)
	totalPct := variancePercentage(l.FinalLineTotal(), l.ExpectedLineTotal)

	if totalPct.Abs().GreaterThan(unitPct.Abs()) {
		l.PriceVariance = totalDelta
		l.PriceVariancePercentage = totalPct
	} else {
		l.PriceVariance = unitDelta
		l.PriceVariancePercentage = unitPct
	}
}

// DetectAnomalies re-derives the line's anomaly list. Checks are independent
// and may overlap; one line can carry several entries. Thresholds are strict
// comparisons: exactly 25% variance is high, not critical.
func (l *CarrierInvoiceLine) DetectAnomalies() {
	anomalies := make([]Anomaly, 0)

	absPct := l.PriceVariancePercentage.Abs()
	if absPct.GreaterThan(decimal.NewFromInt(25)) {
		anomalies = append(anomalies, Anomaly{
			Type:          AnomalyPriceVariance,
			Severity:      SeverityCritical,
			Description:   fmt.Sprintf("Price variance of %s%% exceeds the critical threshold", l.PriceVariancePercentage.Round(2)),
			ExpectedValue: l.ExpectedLineTotal,
			ActualValue:   l.FinalLineTotal(),
			Variance:      l.PriceVariance,
		})
	} else if absPct.GreaterThan(decimal.NewFromInt(10)) {
		anomalies = append(anomalies, Anomaly{
			Type:          AnomalyPriceVariance,
			Severity:      SeverityHigh,
			Description:   fmt.Sprintf("Price variance of %s%% exceeds the tolerance threshold", l.PriceVariancePercentage.Round(2)),
			ExpectedValue: l.ExpectedLineTotal,
			ActualValue:   l.FinalLineTotal(),
			Variance:      l.PriceVariance,
		})
	}

	if l.ExpectedUnitPrice.IsPositive() &&
		l.FinalUnitPrice().GreaterThan(l.ExpectedUnitPrice.Mul(decimal.NewFromInt(2))) {
		anomalies = append(anomalies, Anomaly{
			Type:          AnomalyPriceVariance,
			Severity:      SeverityCritical,
			Description:   "Unit price is more than double the expected price",
			ExpectedValue: l.ExpectedUnitPrice,
			ActualValue:   l.FinalUnitPrice(),
			Variance:      l.FinalUnitPrice().Sub(l.ExpectedUnitPrice),
		})
	}

	if !l.Quantity.IsPositive() {
		anomalies = append(anomalies, Anomaly{
			Type:        AnomalyQuantityMismatch,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Line quantity %s is not positive", l.Quantity),
			ActualValue: l.Quantity,
		})
	}

	if l.LineType == LineTypeTransport && l.RateID == nil && l.ContractLineID == nil {
		anomalies = append(anomalies, Anomaly{
			Type:        AnomalyServiceNotContracted,
			Severity:    SeverityMedium,
			Description: "Transport line has no rate or contract line reference",
			ActualValue: l.FinalLineTotal(),
		})
	}

	l.Anomalies = anomalies
	l.HasAnomaly = len(anomalies) > 0
	l.AnomalySeverity = ""
	for _, a := range anomalies {
		l.AnomalySeverity = MaxSeverity(l.AnomalySeverity, a.Severity)
	}
}

// Audit runs the full line-level control pass: totals, variance, anomalies
func (l *CarrierInvoiceLine) Audit() {
	l.CalculateLineTotal()
	l.CalculatePriceVariance()
	l.DetectAnomalies()
	l.UpdatedAt = time.Now()
}

// Correct records operator-supplied corrected figures and re-audits the line
func (l *CarrierInvoiceLine) Correct(unitPrice, lineTotal *decimal.Decimal) {
	l.CorrectedUnitPrice = unitPrice
	l.CorrectedLineTotal = lineTotal
	l.ValidationStatus = LineStatusCorrected
	l.CalculatePriceVariance()
	l.DetectAnomalies()
	l.UpdatedAt = time.Now()
}
