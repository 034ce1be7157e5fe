package invoicing

import (
	"testing"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoice(t *testing.T) *CarrierInvoice {
	t.Helper()
	inv, err := NewCarrierInvoice(uuid.New(), "INV-2026-0042", uuid.New(), "TransEuropa SARL",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), valueobject.EUR)
	require.NoError(t, err)
	return inv
}

// cleanLine audits without anomalies: billed matches expected
func cleanLine(quantity, unitPrice float64) CarrierInvoiceLine {
	line := NewCarrierInvoiceLine(uuid.Nil, 1, "Road freight", LineTypeTransport, dec(quantity), dec(unitPrice))
	line.RateID = uuidPtr()
	line.ExpectedUnitPrice = dec(unitPrice)
	line.ExpectedLineTotal = dec(quantity * unitPrice)
	return *line
}

// overbilledLine produces a price variance anomaly
func overbilledLine(quantity, unitPrice, expectedUnit float64) CarrierInvoiceLine {
	line := NewCarrierInvoiceLine(uuid.Nil, 1, "Road freight", LineTypeTransport, dec(quantity), dec(unitPrice))
	line.RateID = uuidPtr()
	line.ExpectedUnitPrice = dec(expectedUnit)
	line.ExpectedLineTotal = dec(quantity * expectedUnit)
	return *line
}

func validatedInvoice(t *testing.T, lines ...CarrierInvoiceLine) *CarrierInvoice {
	t.Helper()
	inv := newInvoice(t)
	for _, line := range lines {
		require.NoError(t, inv.AddLine(line))
	}
	actor := uuid.New()
	require.NoError(t, inv.StartReview(actor, ""))
	require.NoError(t, inv.MarkValidated(actor, ""))
	return inv
}

func TestNewCarrierInvoice(t *testing.T) {
	inv := newInvoice(t)
	assert.Equal(t, StatusReceived, inv.Status)
	assert.Equal(t, ValidationPending, inv.ValidationStatus)
	assert.Equal(t, 1, inv.Version)

	_, err := NewCarrierInvoice(uuid.New(), "", uuid.New(), "X", time.Now(), valueobject.EUR)
	assert.Error(t, err)

	_, err = NewCarrierInvoice(uuid.New(), "INV-1", uuid.Nil, "X", time.Now(), valueobject.EUR)
	assert.Error(t, err)
}

func TestAudit_VarianceAndValidationStatus(t *testing.T) {
	inv := newInvoice(t)
	require.NoError(t, inv.AddLine(cleanLine(10, 100)))

	assert.True(t, inv.TotalAmount.Equal(dec(1000)))
	assert.True(t, inv.ExpectedAmount.Equal(dec(1000)))
	assert.True(t, inv.VarianceAmount.IsZero())
	assert.Equal(t, ValidationPassed, inv.ValidationStatus)

	require.NoError(t, inv.AddLine(overbilledLine(1, 250, 100)))
	assert.Equal(t, ValidationFailed, inv.ValidationStatus, "high or critical anomaly fails control")
}

func TestAudit_VariancePercentageZeroWhenExpectedZero(t *testing.T) {
	inv := newInvoice(t)
	line := NewCarrierInvoiceLine(uuid.Nil, 1, "Misc", LineTypeOther, dec(1), dec(50))
	require.NoError(t, inv.AddLine(*line))

	assert.True(t, inv.VarianceAmount.Equal(dec(50)))
	assert.True(t, inv.VariancePercentage.IsZero())
}

func TestRiskLevel_Derivation(t *testing.T) {
	tests := []struct {
		name      string
		anomalies []Anomaly
		variance  float64
		want      RiskLevel
	}{
		{"no anomalies, small variance", nil, 3, RiskLow},
		{"no anomalies, variance just above 5", nil, 5.5, RiskMedium},
		{"no anomalies, variance above 10", nil, 12, RiskHigh},
		{"no anomalies, variance above 20", nil, 25, RiskCritical},
		{"variance exactly 20 is not critical", []Anomaly{{Severity: SeverityHigh}}, 20, RiskHigh},
		{"low anomaly only", []Anomaly{{Severity: SeverityLow}}, 0, RiskMedium},
		{"critical anomaly dominates", []Anomaly{{Severity: SeverityCritical}}, 0, RiskCritical},
		{"negative variance uses magnitude", nil, -15, RiskHigh},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := newInvoice(t)
			inv.Anomalies = tc.anomalies
			inv.VariancePercentage = dec(tc.variance)
			assert.Equal(t, tc.want, inv.RiskLevel())
		})
	}
}

func TestInvoice_VarianceScenario(t *testing.T) {
	// expected 1000, billed 1250: variance 250, 25%
	inv := newInvoice(t)
	require.NoError(t, inv.AddLine(overbilledLine(10, 125, 100)))

	assert.True(t, inv.VarianceAmount.Equal(dec(250)))
	assert.True(t, inv.VariancePercentage.Equal(dec(25)))
	// exactly 25% stays a high anomaly (strict > threshold), but the
	// invoice-level variance above 20% pushes the risk to critical
	require.Len(t, inv.Anomalies, 1)
	assert.Equal(t, SeverityHigh, inv.Anomalies[0].Severity)
	assert.Equal(t, RiskCritical, inv.RiskLevel())
}

func TestApprove_OnReceivedIsInvalidTransition(t *testing.T) {
	inv := newInvoice(t)

	err := inv.Approve(uuid.New(), "")
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_TRANSITION", derr.Code)
	assert.Contains(t, derr.Message, inv.InvoiceNumber)
	assert.Equal(t, StatusReceived, inv.Status, "status unchanged after a refused transition")
}

func TestApprove_HappyPath(t *testing.T) {
	inv := validatedInvoice(t, cleanLine(10, 100))
	require.Equal(t, ValidationPassed, inv.ValidationStatus)

	actor := uuid.New()
	require.NoError(t, inv.Approve(actor, "checked against contract C-77"))

	assert.Equal(t, StatusApproved, inv.Status)
	assert.Equal(t, NextActionPayment, inv.NextAction)

	last := inv.Transitions[len(inv.Transitions)-1]
	assert.Equal(t, StatusValidated, last.From)
	assert.Equal(t, StatusApproved, last.To)
	assert.Equal(t, actor, last.ActorID)
	assert.Equal(t, "checked against contract C-77", last.Notes)
	assert.False(t, last.OccurredAt.IsZero())
}

func TestApprove_FailedValidationBlocked(t *testing.T) {
	inv := validatedInvoice(t, overbilledLine(1, 250, 100))
	require.Equal(t, ValidationFailed, inv.ValidationStatus)

	err := inv.Approve(uuid.New(), "")
	require.Error(t, err)
}

func TestDispute_RequiresAnomaly(t *testing.T) {
	clean := validatedInvoice(t, cleanLine(10, 100))
	assert.Error(t, clean.Dispute(uuid.New(), ""), "nothing to dispute")

	flagged := validatedInvoice(t, overbilledLine(10, 120, 100))
	require.NoError(t, flagged.Dispute(uuid.New(), "rate disagreement"))
	assert.Equal(t, StatusDisputed, flagged.Status)
	assert.Equal(t, NextActionResolveDispute, flagged.NextAction)
}

func TestResolveDispute_ReturnsToReview(t *testing.T) {
	inv := validatedInvoice(t, overbilledLine(10, 120, 100))
	require.NoError(t, inv.Dispute(uuid.New(), ""))

	require.NoError(t, inv.ResolveDispute(uuid.New(), "carrier issued credit note"))
	assert.Equal(t, StatusUnderReview, inv.Status)
}

func TestReject_AllowedStates(t *testing.T) {
	inv := newInvoice(t)
	require.NoError(t, inv.Reject(uuid.New(), "duplicate submission"))
	assert.Equal(t, StatusRejected, inv.Status)
	assert.Equal(t, NextActionReturnToCarrier, inv.NextAction)

	// terminal: nothing further is allowed
	assert.Error(t, inv.Reject(uuid.New(), ""))
	assert.Error(t, inv.StartReview(uuid.New(), ""))
	assert.Error(t, inv.RequireManualReview(uuid.New(), ""))
}

func TestMarkPaid_RequiresApproved(t *testing.T) {
	inv := validatedInvoice(t, cleanLine(10, 100))
	assert.Error(t, inv.MarkPaid(uuid.New(), ""), "not yet approved")

	require.NoError(t, inv.Approve(uuid.New(), ""))
	require.NoError(t, inv.MarkPaid(uuid.New(), "SEPA batch 2026-03"))
	assert.Equal(t, StatusPaid, inv.Status)
	assert.Equal(t, NextAction(""), inv.NextAction)

	assert.Error(t, inv.MarkPaid(uuid.New(), ""), "paid is terminal")
}

func TestRequireManualReview_EscapeHatch(t *testing.T) {
	inv := validatedInvoice(t, cleanLine(10, 100))

	require.NoError(t, inv.RequireManualReview(uuid.New(), "random audit sample"))
	assert.Equal(t, StatusUnderReview, inv.Status)
	assert.True(t, inv.RequiresManualReview)
	assert.Equal(t, ValidationManualReview, inv.ValidationStatus)

	// a re-audit keeps the manual review marker
	inv.Audit()
	assert.Equal(t, ValidationManualReview, inv.ValidationStatus)
}

func TestCorrectLine_ClearsAnomalyAndRevalidates(t *testing.T) {
	inv := newInvoice(t)
	require.NoError(t, inv.AddLine(overbilledLine(10, 120, 100)))
	require.Equal(t, ValidationFailed, inv.ValidationStatus)
	lineID := inv.Lines[0].ID

	require.NoError(t, inv.CorrectLine(lineID, decPtr(100), decPtr(1000)))

	assert.Equal(t, ValidationPassed, inv.ValidationStatus)
	assert.True(t, inv.TotalAmount.Equal(dec(1000)), "totals use the corrected figures")
	assert.Empty(t, inv.Anomalies)

	assert.Error(t, inv.CorrectLine(uuid.New(), decPtr(1), nil), "unknown line")
}

func TestTransitions_VersionIncrements(t *testing.T) {
	inv := validatedInvoice(t, cleanLine(10, 100))
	before := inv.Version

	require.NoError(t, inv.Approve(uuid.New(), ""))
	assert.Equal(t, before+1, inv.Version, "each transition bumps the optimistic lock version")
}

func TestVarianceAmount_Sign(t *testing.T) {
	inv := newInvoice(t)
	line := NewCarrierInvoiceLine(uuid.Nil, 1, "Underbilled", LineTypeTransport, dec(10), dec(90))
	line.RateID = uuidPtr()
	line.ExpectedUnitPrice = dec(100)
	line.ExpectedLineTotal = dec(1000)
	require.NoError(t, inv.AddLine(*line))

	assert.True(t, inv.VarianceAmount.Equal(dec(-100)))
	assert.True(t, inv.VariancePercentage.Equal(dec(-10)))
}
