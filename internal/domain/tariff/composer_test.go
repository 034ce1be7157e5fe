package tariff

import (
	"testing"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string, term RateTerm) CandidateTerm {
	return CandidateTerm{
		ID:     uuid.New(),
		Source: TermSourceRate,
		Name:   name,
		Term:   term,
	}
}

func TestComposer_Compose_SingleTermNoExtras(t *testing.T) {
	composer := NewComposer()

	// road shipment, 500 kg, 300 km, one per_km rate at 2.5
	quote, err := composer.Compose(baseContext(), []CandidateTerm{candidate("Road FR-DE", validTerm())}, nil, nil)
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(dec(750)), "total = 2.5 x 300, got %s", quote.Total)
	assert.True(t, quote.BaseCost.Equal(dec(750)))
	assert.Empty(t, quote.Surcharges)
	assert.Empty(t, quote.Adjustments)
	assert.Empty(t, quote.AppliedRuleIDs)
	assert.False(t, quote.RequiresApproval)
	assert.Equal(t, valueobject.EUR, quote.Currency)
	assert.Equal(t, "Road FR-DE", quote.TermName)
}

func TestComposer_Compose_NoApplicableTerm(t *testing.T) {
	composer := NewComposer()

	term := validTerm()
	term.TransportMode = TransportModeSea

	_, err := composer.Compose(baseContext(), []CandidateTerm{candidate("Sea only", term)}, nil, nil)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_APPLICABLE_RATE", derr.Code)
}

func TestComposer_SelectTerm_PriorityWins(t *testing.T) {
	composer := NewComposer()

	low := validTerm()
	low.Priority = 3
	high := validTerm()
	high.Priority = 8

	selected, ok := composer.SelectTerm(baseContext(), []CandidateTerm{
		candidate("low", low),
		candidate("high", high),
	})
	require.True(t, ok)
	assert.Equal(t, "high", selected.Name)
}

func TestComposer_SelectTerm_SpecificityBreaksPriorityTie(t *testing.T) {
	composer := NewComposer()

	generic := validTerm()
	specific := validTerm()
	specific.TransportMode = TransportModeRoad
	specific.OriginCountry = "FR"

	selected, ok := composer.SelectTerm(baseContext(), []CandidateTerm{
		candidate("generic", generic),
		candidate("specific", specific),
	})
	require.True(t, ok)
	assert.Equal(t, "specific", selected.Name)
}

func TestComposer_SelectTerm_IDBreaksFullTie(t *testing.T) {
	composer := NewComposer()

	a := candidate("a", validTerm())
	b := candidate("b", validTerm())
	want := a
	if b.ID.String() < a.ID.String() {
		want = b
	}

	selected, ok := composer.SelectTerm(baseContext(), []CandidateTerm{a, b})
	require.True(t, ok)
	assert.Equal(t, want.ID, selected.ID)

	// order of the input slice does not change the outcome
	selected, ok = composer.SelectTerm(baseContext(), []CandidateTerm{b, a})
	require.True(t, ok)
	assert.Equal(t, want.ID, selected.ID)
}

func TestComposer_Compose_SurchargesIncludedEvenWhenZero(t *testing.T) {
	composer := NewComposer()

	applicable := validSurcharge(t)
	notApplicable := validSurcharge(t)
	notApplicable.OriginCountry = "IT"

	zeroAmount := validSurcharge(t)
	zeroAmount.Value = dec(0)

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())},
		[]*Surcharge{applicable, notApplicable, zeroAmount}, nil)
	require.NoError(t, err)

	// non-applicable surcharges are dropped, zero-amount applicable ones stay
	require.Len(t, quote.Surcharges, 2)
	assert.True(t, quote.Total.Equal(dec(775)), "750 + 25 + 0, got %s", quote.Total)
}

func TestComposer_Compose_BlockQuote(t *testing.T) {
	composer := NewComposer()

	blocker := validRule(t, RuleConditions{}, RuleActions{
		ValidationActions: []ValidationAction{{Type: ValidationBlockQuote}},
	})

	_, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil, []*PricingRule{blocker})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "QUOTING_BLOCKED", derr.Code)
	assert.Contains(t, derr.Message, blocker.Name)
}

func TestComposer_Compose_RequireApprovalAndWarnings(t *testing.T) {
	composer := NewComposer()

	gate := validRule(t, RuleConditions{}, RuleActions{
		ValidationActions: []ValidationAction{
			{Type: ValidationRequireApproval},
			{Type: ValidationWarningMessage, Message: "Rate sheet expires soon"},
		},
	})

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil, []*PricingRule{gate})
	require.NoError(t, err)
	assert.True(t, quote.RequiresApproval)
	assert.Equal(t, []string{"Rate sheet expires soon"}, quote.Warnings)
	assert.Equal(t, []uuid.UUID{gate.ID}, quote.AppliedRuleIDs)
}

func TestComposer_Compose_AdjustmentsFoldInPriorityOrder(t *testing.T) {
	composer := NewComposer()

	// higher priority applies first: 750 * 0.9 = 675, then 675 + 50 = 725
	discount := validRule(t, RuleConditions{}, RuleActions{
		RateAdjustments: []RateAdjustment{
			{Type: AdjustmentPercentageDiscount, Value: dec(10), AppliesTo: AdjustmentTargetBaseRate},
		},
	})
	discount.Priority = 9
	markup := validRule(t, RuleConditions{}, RuleActions{
		RateAdjustments: []RateAdjustment{
			{Type: AdjustmentFixedMarkup, Value: dec(50), AppliesTo: AdjustmentTargetBaseRate},
		},
	})
	markup.Priority = 2

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil,
		[]*PricingRule{markup, discount})
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(dec(725)), "got %s", quote.Total)
	assert.True(t, quote.BaseCost.Equal(dec(725)), "base reflects folded base adjustments")
	require.Len(t, quote.Adjustments, 2)
	assert.True(t, quote.Adjustments[0].Amount.Equal(dec(-75)))
	assert.True(t, quote.Adjustments[1].Amount.Equal(dec(50)))
	assert.Equal(t, []uuid.UUID{discount.ID, markup.ID}, quote.AppliedRuleIDs)
}

func TestComposer_Compose_AdjustmentTargets(t *testing.T) {
	composer := NewComposer()

	surcharge := validSurcharge(t) // fixed 25

	rule := validRule(t, RuleConditions{}, RuleActions{
		RateAdjustments: []RateAdjustment{
			{Type: AdjustmentPercentageDiscount, Value: dec(20), AppliesTo: AdjustmentTargetSurcharges},
			{Type: AdjustmentFixedMarkup, Value: dec(10), AppliesTo: AdjustmentTargetTotal},
		},
	})

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())},
		[]*Surcharge{surcharge}, []*PricingRule{rule})
	require.NoError(t, err)

	// 750 base + (25 - 20%) + 10 = 750 + 20 + 10
	assert.True(t, quote.Total.Equal(dec(780)), "got %s", quote.Total)
	assert.True(t, quote.BaseCost.Equal(dec(750)), "base untouched by surcharge and total targets")
}

func TestComposer_Compose_SetRate(t *testing.T) {
	composer := NewComposer()

	rule := validRule(t, RuleConditions{}, RuleActions{
		RateAdjustments: []RateAdjustment{
			{Type: AdjustmentSetRate, Value: dec(600), AppliesTo: AdjustmentTargetBaseRate},
		},
	})

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil, []*PricingRule{rule})
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(dec(600)))
	require.Len(t, quote.Adjustments, 1)
	assert.True(t, quote.Adjustments[0].Amount.Equal(dec(-150)), "delta from 750 down to 600")
}

func TestComposer_Compose_RuleSurchargeActions(t *testing.T) {
	composer := NewComposer()

	toll := validSurcharge(t) // toll, fixed 25

	adder := validRule(t, RuleConditions{}, RuleActions{
		SurchargeActions: []SurchargeAction{
			{Op: SurchargeOpAdd, SurchargeType: SurchargeTypeHandling, Method: CalculationMethodPercentage, Value: dec(2)},
		},
	})
	adder.Priority = 8
	remover := validRule(t, RuleConditions{}, RuleActions{
		SurchargeActions: []SurchargeAction{
			{Op: SurchargeOpRemove, SurchargeType: SurchargeTypeToll},
		},
	})
	remover.Priority = 4

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())},
		[]*Surcharge{toll}, []*PricingRule{adder, remover})
	require.NoError(t, err)

	// toll 25 removed, handling 2% of 750 = 15 added
	require.Len(t, quote.Surcharges, 1)
	assert.Equal(t, SurchargeTypeHandling, quote.Surcharges[0].SurchargeType)
	assert.True(t, quote.Surcharges[0].FromRule)
	assert.True(t, quote.Total.Equal(dec(765)), "got %s", quote.Total)
}

func TestComposer_Compose_ModifySurcharge(t *testing.T) {
	composer := NewComposer()

	toll := validSurcharge(t) // fixed 25

	modifier := validRule(t, RuleConditions{}, RuleActions{
		SurchargeActions: []SurchargeAction{
			{Op: SurchargeOpModify, SurchargeType: SurchargeTypeToll, Method: CalculationMethodFixedAmount, Value: dec(40)},
		},
	})

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())},
		[]*Surcharge{toll}, []*PricingRule{modifier})
	require.NoError(t, err)

	require.Len(t, quote.Surcharges, 1)
	assert.True(t, quote.Surcharges[0].Amount.Equal(dec(40)))
	assert.True(t, quote.Total.Equal(dec(790)))
}

func TestComposer_Compose_InactiveAndExpiredRulesSkipped(t *testing.T) {
	composer := NewComposer()

	inactive := validRule(t, RuleConditions{}, discountActions())
	inactive.Deactivate()

	expired := validRule(t, RuleConditions{}, discountActions())
	expiry := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	expired.ExpiryDate = &expiry

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil,
		[]*PricingRule{inactive, expired})
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(dec(750)))
	assert.Empty(t, quote.AppliedRuleIDs)
}

func TestComposer_Compose_NonMatchingRuleIgnored(t *testing.T) {
	composer := NewComposer()

	rule := validRule(t, RuleConditions{
		TransportModes: []TransportMode{TransportModeAir},
	}, discountActions())

	quote, err := composer.Compose(baseContext(),
		[]CandidateTerm{candidate("Road", validTerm())}, nil, []*PricingRule{rule})
	require.NoError(t, err)
	assert.True(t, quote.Total.Equal(dec(750)))
	assert.Empty(t, quote.AppliedRuleIDs)
}
