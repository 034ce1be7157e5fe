package invoicing

import (
	"github.com/shopspring/decimal"
)

// AnomalyType classifies what kind of discrepancy was detected
type AnomalyType string

const (
	AnomalyPriceVariance        AnomalyType = "price_variance"
	AnomalyQuantityMismatch     AnomalyType = "quantity_mismatch"
	AnomalyServiceNotContracted AnomalyType = "service_not_contracted"
	AnomalyTotalVariance        AnomalyType = "total_variance"
	AnomalyDuplicateInvoice     AnomalyType = "duplicate_invoice"
)

// IsValid checks if the anomaly type is a known value
func (t AnomalyType) IsValid() bool {
	switch t {
	case AnomalyPriceVariance, AnomalyQuantityMismatch,
		AnomalyServiceNotContracted, AnomalyTotalVariance, AnomalyDuplicateInvoice:
		return true
	}
	return false
}

// AnomalySeverity tiers detected anomalies
type AnomalySeverity string

const (
	SeverityLow      AnomalySeverity = "low"
	SeverityMedium   AnomalySeverity = "medium"
	SeverityHigh     AnomalySeverity = "high"
	SeverityCritical AnomalySeverity = "critical"
)

// IsValid checks if the severity is a known value
func (s AnomalySeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// rank orders severities for max-of comparisons
func (s AnomalySeverity) rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// AtLeast reports whether the severity is at or above the given tier
func (s AnomalySeverity) AtLeast(other AnomalySeverity) bool {
	return s.rank() >= other.rank()
}

// MaxSeverity returns the higher of two severities
func MaxSeverity(a, b AnomalySeverity) AnomalySeverity {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Anomaly is one flagged discrepancy on an invoice or invoice line
type Anomaly struct {
	Type          AnomalyType     `json:"type"`
	Severity      AnomalySeverity `json:"severity"`
	Description   string          `json:"description"`
	ExpectedValue decimal.Decimal `json:"expected_value"`
	ActualValue   decimal.Decimal `json:"actual_value"`
	Variance      decimal.Decimal `json:"variance"`
}

// RiskLevel is the invoice-level aggregate derived from anomalies and
// variance magnitude. Derived on read, never stored input.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// String returns the string representation of RiskLevel
func (r RiskLevel) String() string {
	return string(r)
}
