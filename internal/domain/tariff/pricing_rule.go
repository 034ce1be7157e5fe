package tariff

import (
	"fmt"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleType classifies what a pricing rule is for
type RuleType string

const (
	RuleTypeRateSelection RuleType = "rate_selection"
	RuleTypeDiscount      RuleType = "discount"
	RuleTypeSurcharge     RuleType = "surcharge"
	RuleTypeValidation    RuleType = "validation"
	RuleTypeApproval      RuleType = "approval"
)

// IsValid checks if the rule type is a known value
func (t RuleType) IsValid() bool {
	switch t {
	case RuleTypeRateSelection, RuleTypeDiscount, RuleTypeSurcharge,
		RuleTypeValidation, RuleTypeApproval:
		return true
	}
	return false
}

// RuleConditions is the closed condition vocabulary a rule matches against.
// Every populated field is a conjunctive filter; empty fields are vacuously
// true. Day-of-week and time-of-day windows are checked against the
// evaluation clock, not the shipment date (kept from the source system).
type RuleConditions struct {
	OriginCountries      []string         `json:"origin_countries,omitempty"`
	DestinationCountries []string         `json:"destination_countries,omitempty"`
	TransportModes       []TransportMode  `json:"transport_modes,omitempty"`
	ServiceLevels        []string         `json:"service_levels,omitempty"`
	MinWeightKg          *decimal.Decimal `json:"min_weight_kg,omitempty"`
	MaxWeightKg          *decimal.Decimal `json:"max_weight_kg,omitempty"`
	MinVolumeM3          *decimal.Decimal `json:"min_volume_m3,omitempty"`
	MaxVolumeM3          *decimal.Decimal `json:"max_volume_m3,omitempty"`
	MinDeclaredValue     *decimal.Decimal `json:"min_declared_value,omitempty"`
	MaxDeclaredValue     *decimal.Decimal `json:"max_declared_value,omitempty"`
	DateFrom             *time.Time       `json:"date_from,omitempty"`
	DateTo               *time.Time       `json:"date_to,omitempty"`
	DaysOfWeek           []time.Weekday   `json:"days_of_week,omitempty"`
	StartTime            string           `json:"start_time,omitempty"` // "HH:MM"
	EndTime              string           `json:"end_time,omitempty"`   // "HH:MM"
	CustomerIDs          []uuid.UUID      `json:"customer_ids,omitempty"`
	CarrierIDs           []uuid.UUID      `json:"carrier_ids,omitempty"`
	MinMonthlyVolume     *decimal.Decimal `json:"min_monthly_volume,omitempty"`
	MinAnnualVolume      *decimal.Decimal `json:"min_annual_volume,omitempty"`
}

// AdjustmentType is the closed set of rate adjustment kinds
type AdjustmentType string

const (
	AdjustmentPercentageDiscount AdjustmentType = "percentage_discount"
	AdjustmentPercentageMarkup   AdjustmentType = "percentage_markup"
	AdjustmentFixedDiscount      AdjustmentType = "fixed_discount"
	AdjustmentFixedMarkup        AdjustmentType = "fixed_markup"
	AdjustmentSetRate            AdjustmentType = "set_rate"
)

// IsValid checks if the adjustment type is a known value
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentPercentageDiscount, AdjustmentPercentageMarkup,
		AdjustmentFixedDiscount, AdjustmentFixedMarkup, AdjustmentSetRate:
		return true
	}
	return false
}

// AdjustmentTarget selects which running amount an adjustment folds into
type AdjustmentTarget string

const (
	AdjustmentTargetBaseRate   AdjustmentTarget = "base_rate"
	AdjustmentTargetSurcharges AdjustmentTarget = "surcharges"
	AdjustmentTargetTotal      AdjustmentTarget = "total"
)

// IsValid checks if the adjustment target is a known value
func (t AdjustmentTarget) IsValid() bool {
	switch t {
	case AdjustmentTargetBaseRate, AdjustmentTargetSurcharges, AdjustmentTargetTotal:
		return true
	}
	return false
}

// RateAdjustment is one typed rate adjustment action
type RateAdjustment struct {
	Type      AdjustmentType   `json:"adjustment_type"`
	Value     decimal.Decimal  `json:"value"`
	AppliesTo AdjustmentTarget `json:"applies_to"`
}

// SurchargeOp is the closed set of surcharge action operations
type SurchargeOp string

const (
	SurchargeOpAdd    SurchargeOp = "add"
	SurchargeOpRemove SurchargeOp = "remove"
	SurchargeOpModify SurchargeOp = "modify"
)

// IsValid checks if the surcharge operation is a known value
func (o SurchargeOp) IsValid() bool {
	switch o {
	case SurchargeOpAdd, SurchargeOpRemove, SurchargeOpModify:
		return true
	}
	return false
}

// SurchargeAction adds, removes, or modifies a surcharge of a given type
// during composition. Value and Method are used by add and modify.
type SurchargeAction struct {
	Op            SurchargeOp       `json:"op"`
	SurchargeType SurchargeType     `json:"surcharge_type"`
	Method        CalculationMethod `json:"calculation_method,omitempty"`
	Value         decimal.Decimal   `json:"value"`
	Label         string            `json:"label,omitempty"`
}

// ValidationActionType is the closed set of validation action kinds
type ValidationActionType string

const (
	ValidationRequireApproval ValidationActionType = "require_approval"
	ValidationBlockQuote      ValidationActionType = "block_quote"
	ValidationWarningMessage  ValidationActionType = "warning_message"
	ValidationAutoApprove     ValidationActionType = "auto_approve"
)

// IsValid checks if the validation action type is a known value
func (t ValidationActionType) IsValid() bool {
	switch t {
	case ValidationRequireApproval, ValidationBlockQuote,
		ValidationWarningMessage, ValidationAutoApprove:
		return true
	}
	return false
}

// ValidationAction gates or annotates a cost composition
type ValidationAction struct {
	Type    ValidationActionType `json:"action_type"`
	Message string               `json:"message,omitempty"`
}

// RuleActions groups the typed actions a matched rule emits
type RuleActions struct {
	RateAdjustments   []RateAdjustment   `json:"rate_adjustments,omitempty"`
	SurchargeActions  []SurchargeAction  `json:"surcharge_actions,omitempty"`
	ValidationActions []ValidationAction `json:"validation_actions,omitempty"`
}

// IsEmpty reports whether the rule carries no actions at all
func (a RuleActions) IsEmpty() bool {
	return len(a.RateAdjustments) == 0 && len(a.SurchargeActions) == 0 && len(a.ValidationActions) == 0
}

// ActionKind tags entries of the flattened action list
type ActionKind string

const (
	ActionKindAdjustment ActionKind = "adjustment"
	ActionKindSurcharge  ActionKind = "surcharge"
	ActionKindValidation ActionKind = "validation"
)

// ActionResult is one entry of the ordered, flattened action list a matched
// rule produces. Exactly one of Adjustment, Surcharge, Validation is set,
// according to Kind.
type ActionResult struct {
	Kind         ActionKind        `json:"kind"`
	RuleID       uuid.UUID         `json:"rule_id"`
	RuleName     string            `json:"rule_name"`
	RulePriority int               `json:"rule_priority"`
	Adjustment   *RateAdjustment   `json:"adjustment,omitempty"`
	Surcharge    *SurchargeAction  `json:"surcharge,omitempty"`
	Validation   *ValidationAction `json:"validation,omitempty"`
}

// PricingRule is a declarative condition-to-action mapping that adjusts or
// gates a cost computation. Evaluation is pure; usage bookkeeping is an
// explicit separate operation (PricingRuleRepository.IncrementUsage).
type PricingRule struct {
	shared.TenantAggregateRoot
	Name          string         `json:"name"`
	RuleType      RuleType       `json:"rule_type"`
	Conditions    RuleConditions `json:"conditions"`
	Actions       RuleActions    `json:"actions"`
	Priority      int            `json:"priority"`
	EffectiveDate time.Time      `json:"effective_date"`
	ExpiryDate    *time.Time     `json:"expiry_date,omitempty"`
	Active        bool           `json:"active"`
	UsageCount    int64          `json:"usage_count"`
	LastUsedAt    *time.Time     `json:"last_used_at,omitempty"`
}

// NewPricingRule creates a new pricing rule after structural validation
func NewPricingRule(tenantID uuid.UUID, name string, ruleType RuleType, conditions RuleConditions, actions RuleActions, priority int, effectiveDate time.Time) (*PricingRule, error) {
	r := &PricingRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		RuleType:            ruleType,
		Conditions:          conditions,
		Actions:             actions,
		Priority:            priority,
		EffectiveDate:       effectiveDate,
		Active:              true,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate runs the structural checks on the rule definition. Violations
// surface at authoring time; evaluation assumes well-formed rules.
func (r *PricingRule) Validate() error {
	if r.Name == "" {
		return shared.NewDomainError("MALFORMED_RULE", "Rule name cannot be empty")
	}
	if !r.RuleType.IsValid() {
		return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Unknown rule type %q", r.RuleType))
	}
	if r.Priority < 1 || r.Priority > 10 {
		return shared.NewDomainError("MALFORMED_RULE", "Priority must be between 1 and 10")
	}
	if r.EffectiveDate.IsZero() {
		return shared.NewDomainError("MALFORMED_RULE", "Effective date is required")
	}
	if r.ExpiryDate != nil && r.ExpiryDate.Before(r.EffectiveDate) {
		return shared.NewDomainError("MALFORMED_RULE", "Expiry date cannot precede effective date")
	}
	if r.Actions.IsEmpty() {
		return shared.NewDomainError("MALFORMED_RULE", "Rule must define at least one action")
	}
	c := r.Conditions
	if c.MinWeightKg != nil && c.MaxWeightKg != nil && c.MaxWeightKg.LessThan(*c.MinWeightKg) {
		return shared.NewDomainError("MALFORMED_RULE", "max_weight_kg cannot be below min_weight_kg")
	}
	if c.MinVolumeM3 != nil && c.MaxVolumeM3 != nil && c.MaxVolumeM3.LessThan(*c.MinVolumeM3) {
		return shared.NewDomainError("MALFORMED_RULE", "max_volume_m3 cannot be below min_volume_m3")
	}
	if c.DateFrom != nil && c.DateTo != nil && c.DateTo.Before(*c.DateFrom) {
		return shared.NewDomainError("MALFORMED_RULE", "date_to cannot precede date_from")
	}
	for i, adj := range r.Actions.RateAdjustments {
		if !adj.Type.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Rate adjustment %d has unknown type %q", i, adj.Type))
		}
		if !adj.AppliesTo.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Rate adjustment %d has unknown target %q", i, adj.AppliesTo))
		}
		if adj.Value.IsNegative() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Rate adjustment %d has negative value", i))
		}
	}
	for i, sa := range r.Actions.SurchargeActions {
		if !sa.Op.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Surcharge action %d has unknown op %q", i, sa.Op))
		}
		if !sa.SurchargeType.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Surcharge action %d has unknown surcharge type %q", i, sa.SurchargeType))
		}
		if sa.Op != SurchargeOpRemove && sa.Method != "" && !sa.Method.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Surcharge action %d has unknown calculation method %q", i, sa.Method))
		}
	}
	for i, va := range r.Actions.ValidationActions {
		if !va.Type.IsValid() {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Validation action %d has unknown type %q", i, va.Type))
		}
		if va.Type == ValidationWarningMessage && va.Message == "" {
			return shared.NewDomainError("MALFORMED_RULE", fmt.Sprintf("Validation action %d requires a message", i))
		}
	}
	return nil
}

// IsValidForDate reports whether the date falls inside the rule's validity
// window, both bounds inclusive
func (r *PricingRule) IsValidForDate(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	if r.ExpiryDate != nil && date.After(*r.ExpiryDate) {
		return false
	}
	return true
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func containsUUID(list []uuid.UUID, value uuid.UUID) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// EvaluateConditions reports whether every populated condition holds for the
// shipment context. Conditions are conjunctive and short-circuit on the
// first failure. Pure: no usage bookkeeping happens here.
func (r *PricingRule) EvaluateConditions(sctx ShipmentContext) bool {
	c := r.Conditions

	if len(c.OriginCountries) > 0 && !containsString(c.OriginCountries, sctx.OriginCountry) {
		return false
	}
	if len(c.DestinationCountries) > 0 && !containsString(c.DestinationCountries, sctx.DestinationCountry) {
		return false
	}
	if len(c.TransportModes) > 0 {
		found := false
		for _, mode := range c.TransportModes {
			if mode == sctx.TransportMode {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(c.ServiceLevels) > 0 && !containsString(c.ServiceLevels, sctx.ServiceLevel) {
		return false
	}
	if !withinBound(sctx.WeightKg, c.MinWeightKg, c.MaxWeightKg) {
		return false
	}
	if !withinBound(sctx.VolumeM3, c.MinVolumeM3, c.MaxVolumeM3) {
		return false
	}
	if !withinBound(sctx.DeclaredValue, c.MinDeclaredValue, c.MaxDeclaredValue) {
		return false
	}
	if c.DateFrom != nil && sctx.ShipmentDate.Before(*c.DateFrom) {
		return false
	}
	if c.DateTo != nil && sctx.ShipmentDate.After(*c.DateTo) {
		return false
	}

	// Day-of-week and time-of-day windows use the evaluation clock, not
	// the shipment's planned date. Kept as observed in the source system;
	// flagged to product owners rather than silently changed.
	now := sctx.EvaluationTime()
	if len(c.DaysOfWeek) > 0 {
		found := false
		for _, day := range c.DaysOfWeek {
			if now.Weekday() == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	clock := now.Format("15:04")
	if c.StartTime != "" && clock < c.StartTime {
		return false
	}
	if c.EndTime != "" && clock > c.EndTime {
		return false
	}

	if len(c.CustomerIDs) > 0 && !containsUUID(c.CustomerIDs, sctx.CustomerID) {
		return false
	}
	if len(c.CarrierIDs) > 0 && !containsUUID(c.CarrierIDs, sctx.CarrierID) {
		return false
	}
	if c.MinMonthlyVolume != nil && sctx.MonthlyVolume.LessThan(*c.MinMonthlyVolume) {
		return false
	}
	if c.MinAnnualVolume != nil && sctx.AnnualVolume.LessThan(*c.MinAnnualVolume) {
		return false
	}
	return true
}

// ActionResults flattens the rule's actions into a single ordered list:
// rate adjustments, then surcharge actions, then validation actions.
func (r *PricingRule) ActionResults() []ActionResult {
	results := make([]ActionResult, 0, len(r.Actions.RateAdjustments)+len(r.Actions.SurchargeActions)+len(r.Actions.ValidationActions))
	for i := range r.Actions.RateAdjustments {
		adj := r.Actions.RateAdjustments[i]
		results = append(results, ActionResult{
			Kind:         ActionKindAdjustment,
			RuleID:       r.ID,
			RuleName:     r.Name,
			RulePriority: r.Priority,
			Adjustment:   &adj,
		})
	}
	for i := range r.Actions.SurchargeActions {
		sa := r.Actions.SurchargeActions[i]
		results = append(results, ActionResult{
			Kind:         ActionKindSurcharge,
			RuleID:       r.ID,
			RuleName:     r.Name,
			RulePriority: r.Priority,
			Surcharge:    &sa,
		})
	}
	for i := range r.Actions.ValidationActions {
		va := r.Actions.ValidationActions[i]
		results = append(results, ActionResult{
			Kind:         ActionKindValidation,
			RuleID:       r.ID,
			RuleName:     r.Name,
			RulePriority: r.Priority,
			Validation:   &va,
		})
	}
	return results
}

// Deactivate removes the rule from evaluation
func (r *PricingRule) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
