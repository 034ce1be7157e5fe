package tariff

import (
	"fmt"
	"sort"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SurchargeLine is one surcharge entry of a quote breakdown
type SurchargeLine struct {
	SurchargeID   uuid.UUID       `json:"surcharge_id,omitempty"`
	Name          string          `json:"name"`
	SurchargeType SurchargeType   `json:"surcharge_type"`
	Amount        decimal.Decimal `json:"amount"`
	FromRule      bool            `json:"from_rule,omitempty"`
	RuleID        uuid.UUID       `json:"rule_id,omitempty"`
}

// AdjustmentLine is one rule adjustment entry of a quote breakdown.
// Amount is the signed delta the adjustment contributed.
type AdjustmentLine struct {
	RuleID    uuid.UUID        `json:"rule_id"`
	RuleName  string           `json:"rule_name"`
	Type      AdjustmentType   `json:"adjustment_type"`
	AppliesTo AdjustmentTarget `json:"applies_to"`
	Amount    decimal.Decimal  `json:"amount"`
}

// Quote is the result of a cost composition: the final total plus a
// structured breakdown for auditability.
type Quote struct {
	Currency         valueobject.Currency `json:"currency"`
	TermID           uuid.UUID            `json:"term_id"`
	TermSource       TermSource           `json:"term_source"`
	TermName         string               `json:"term_name"`
	BaseCost         decimal.Decimal      `json:"base_cost"`
	Surcharges       []SurchargeLine      `json:"surcharges"`
	Adjustments      []AdjustmentLine     `json:"adjustments"`
	Warnings         []string             `json:"warnings,omitempty"`
	Total            decimal.Decimal      `json:"total"`
	RequiresApproval bool                 `json:"requires_approval"`

	// AppliedRuleIDs lists the rules whose actions were folded into this
	// quote, in application order. The orchestrator records usage for
	// these once the quote is confirmed.
	AppliedRuleIDs []uuid.UUID `json:"applied_rule_ids,omitempty"`
}

// ErrNoApplicableTerm is returned when no rate or contract line matches the
// shipment context. A normal negative result for callers to handle.
var ErrNoApplicableTerm = shared.NewDomainError("NO_APPLICABLE_RATE", "No rate or contract line matches the shipment")

// Composer orchestrates term selection, surcharge computation and pricing
// rule application into a single quote. Stateless and safe for concurrent
// use.
type Composer struct{}

// NewComposer creates a new Composer
func NewComposer() *Composer {
	return &Composer{}
}

// SelectTerm picks the applicable candidate with the lexicographically
// highest (priority, specificity); ties break on lowest ID for determinism.
// Returns false when no candidate is applicable.
func (c *Composer) SelectTerm(sctx ShipmentContext, candidates []CandidateTerm) (CandidateTerm, bool) {
	applicable := make([]CandidateTerm, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Term.IsApplicable(sctx) {
			applicable = append(applicable, cand)
		}
	}
	if len(applicable) == 0 {
		return CandidateTerm{}, false
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		a, b := applicable[i], applicable[j]
		if a.Term.Priority != b.Term.Priority {
			return a.Term.Priority > b.Term.Priority
		}
		if sa, sb := a.Term.specificity(), b.Term.specificity(); sa != sb {
			return sa > sb
		}
		return a.ID.String() < b.ID.String()
	})
	return applicable[0], true
}

// matchedRules returns the active rules valid for the shipment date whose
// conditions hold, ordered by descending priority (stable on input order).
func (c *Composer) matchedRules(sctx ShipmentContext, rules []*PricingRule) []*PricingRule {
	matched := make([]*PricingRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if !rule.IsValidForDate(sctx.ShipmentDate) {
			continue
		}
		if !rule.EvaluateConditions(sctx) {
			continue
		}
		matched = append(matched, rule)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}

// adjustmentDelta computes the signed delta an adjustment contributes when
// folded onto the current target amount
func adjustmentDelta(adj RateAdjustment, current decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	switch adj.Type {
	case AdjustmentPercentageDiscount:
		return current.Mul(adj.Value).Div(hundred).Neg()
	case AdjustmentPercentageMarkup:
		return current.Mul(adj.Value).Div(hundred)
	case AdjustmentFixedDiscount:
		return adj.Value.Neg()
	case AdjustmentFixedMarkup:
		return adj.Value
	case AdjustmentSetRate:
		return adj.Value.Sub(current)
	default:
		return decimal.Zero
	}
}

// Compose produces the total-cost quote for a shipment: selects the best
// applicable term, prices it, sums applicable surcharges, then folds all
// matched rule actions into the running totals in priority order.
// A block_quote validation action aborts with a QUOTING_BLOCKED error;
// require_approval flags the quote without blocking it.
func (c *Composer) Compose(sctx ShipmentContext, candidates []CandidateTerm, surcharges []*Surcharge, rules []*PricingRule) (*Quote, error) {
	term, ok := c.SelectTerm(sctx, candidates)
	if !ok {
		return nil, ErrNoApplicableTerm
	}

	baseCost := term.Term.Price(sctx)

	surchargeLines := make([]SurchargeLine, 0, len(surcharges))
	surchargeTotal := decimal.Zero
	for _, s := range surcharges {
		if !s.IsApplicable(sctx) {
			continue
		}
		amount := s.Compute(baseCost, sctx)
		surchargeLines = append(surchargeLines, SurchargeLine{
			SurchargeID:   s.ID,
			Name:          s.Name,
			SurchargeType: s.SurchargeType,
			Amount:        amount,
		})
		surchargeTotal = surchargeTotal.Add(amount)
	}

	quote := &Quote{
		Currency:    sctx.QuoteCurrency(),
		TermID:      term.ID,
		TermSource:  term.Source,
		TermName:    term.Name,
		BaseCost:    baseCost,
		Adjustments: make([]AdjustmentLine, 0),
	}

	baseRunning := baseCost
	totalExtra := decimal.Zero
	appliedRules := make(map[uuid.UUID]bool)
	ruleOrder := make([]uuid.UUID, 0)

	for _, rule := range c.matchedRules(sctx, rules) {
		for _, action := range rule.ActionResults() {
			switch action.Kind {
			case ActionKindValidation:
				switch action.Validation.Type {
				case ValidationBlockQuote:
					return nil, shared.NewDomainError("QUOTING_BLOCKED",
						fmt.Sprintf("Quoting blocked by rule %q (%s)", rule.Name, rule.ID))
				case ValidationRequireApproval:
					quote.RequiresApproval = true
				case ValidationAutoApprove:
					quote.RequiresApproval = false
				case ValidationWarningMessage:
					quote.Warnings = append(quote.Warnings, action.Validation.Message)
				}

			case ActionKindAdjustment:
				adj := *action.Adjustment
				var delta decimal.Decimal
				switch adj.AppliesTo {
				case AdjustmentTargetBaseRate:
					delta = adjustmentDelta(adj, baseRunning)
					baseRunning = baseRunning.Add(delta)
				case AdjustmentTargetSurcharges:
					delta = adjustmentDelta(adj, surchargeTotal)
					surchargeTotal = surchargeTotal.Add(delta)
				default: // total
					running := baseRunning.Add(surchargeTotal).Add(totalExtra)
					delta = adjustmentDelta(adj, running)
					totalExtra = totalExtra.Add(delta)
				}
				quote.Adjustments = append(quote.Adjustments, AdjustmentLine{
					RuleID:    rule.ID,
					RuleName:  rule.Name,
					Type:      adj.Type,
					AppliesTo: adj.AppliesTo,
					Amount:    delta,
				})

			case ActionKindSurcharge:
				sa := *action.Surcharge
				switch sa.Op {
				case SurchargeOpAdd:
					amount := ruleSurchargeAmount(sa, baseRunning, sctx)
					surchargeLines = append(surchargeLines, SurchargeLine{
						Name:          ruleSurchargeLabel(sa, rule),
						SurchargeType: sa.SurchargeType,
						Amount:        amount,
						FromRule:      true,
						RuleID:        rule.ID,
					})
					surchargeTotal = surchargeTotal.Add(amount)
				case SurchargeOpRemove:
					kept := surchargeLines[:0]
					for _, line := range surchargeLines {
						if line.SurchargeType == sa.SurchargeType {
							surchargeTotal = surchargeTotal.Sub(line.Amount)
							continue
						}
						kept = append(kept, line)
					}
					surchargeLines = kept
				case SurchargeOpModify:
					for i, line := range surchargeLines {
						if line.SurchargeType != sa.SurchargeType {
							continue
						}
						amount := ruleSurchargeAmount(sa, baseRunning, sctx)
						surchargeTotal = surchargeTotal.Sub(line.Amount).Add(amount)
						surchargeLines[i].Amount = amount
						surchargeLines[i].FromRule = true
						surchargeLines[i].RuleID = rule.ID
					}
				}
			}

			if !appliedRules[rule.ID] {
				appliedRules[rule.ID] = true
				ruleOrder = append(ruleOrder, rule.ID)
			}
		}
	}

	quote.Surcharges = surchargeLines
	quote.Total = baseRunning.Add(surchargeTotal).Add(totalExtra)
	quote.AppliedRuleIDs = ruleOrder
	// the base cost reported in the breakdown reflects base-rate
	// adjustments already folded in
	quote.BaseCost = baseRunning
	return quote, nil
}

// ruleSurchargeAmount computes the amount a rule-driven surcharge action
// contributes, interpreting its value through the action's method
func ruleSurchargeAmount(sa SurchargeAction, baseAmount decimal.Decimal, sctx ShipmentContext) decimal.Decimal {
	switch sa.Method {
	case CalculationMethodPercentage:
		return baseAmount.Mul(sa.Value).Div(decimal.NewFromInt(100))
	case "", CalculationMethodFixedAmount:
		return sa.Value
	default:
		return sa.Value.Mul(quantityBasisForMethod(sa.Method, sctx))
	}
}

func ruleSurchargeLabel(sa SurchargeAction, rule *PricingRule) string {
	if sa.Label != "" {
		return sa.Label
	}
	return fmt.Sprintf("%s (rule: %s)", sa.SurchargeType, rule.Name)
}
