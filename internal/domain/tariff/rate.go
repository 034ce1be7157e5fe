package tariff

import (
	"fmt"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateType selects the quantity basis a rate is priced against
type RateType string

const (
	RateTypePerKm        RateType = "per_km"
	RateTypePerKg        RateType = "per_kg"
	RateTypePerM3        RateType = "per_m3"
	RateTypePerPallet    RateType = "per_pallet"
	RateTypePerContainer RateType = "per_container"
	RateTypePerHour      RateType = "per_hour"
	RateTypePercentage   RateType = "percentage"
	RateTypeFlatRate     RateType = "flat_rate"
)

// IsValid checks if the rate type is a known value
func (t RateType) IsValid() bool {
	switch t {
	case RateTypePerKm, RateTypePerKg, RateTypePerM3, RateTypePerPallet,
		RateTypePerContainer, RateTypePerHour, RateTypePercentage, RateTypeFlatRate:
		return true
	}
	return false
}

// String returns the string representation of RateType
func (t RateType) String() string {
	return string(t)
}

// RateTier is a quantity sub-range [MinQuantity, MaxQuantity) with its own
// rate and optional discount, used for volume-based pricing.
// A nil MaxQuantity means the range is open-ended.
type RateTier struct {
	MinQuantity     decimal.Decimal  `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity,omitempty"`
	Rate            decimal.Decimal  `json:"rate"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// Contains reports whether the quantity falls within [MinQuantity, MaxQuantity)
func (t RateTier) Contains(qty decimal.Decimal) bool {
	if qty.LessThan(t.MinQuantity) {
		return false
	}
	if t.MaxQuantity != nil && qty.GreaterThanOrEqual(*t.MaxQuantity) {
		return false
	}
	return true
}

// overlaps reports whether two tier ranges intersect
func (t RateTier) overlaps(other RateTier) bool {
	// t ends before other starts
	if t.MaxQuantity != nil && t.MaxQuantity.LessThanOrEqual(other.MinQuantity) {
		return false
	}
	// other ends before t starts
	if other.MaxQuantity != nil && other.MaxQuantity.LessThanOrEqual(t.MinQuantity) {
		return false
	}
	return true
}

// ValidateTiers rejects tier lists with inverted or overlapping ranges.
// Evaluation keeps first-match semantics; this check runs at authoring time
// so that silent overlap never reaches the engine.
func ValidateTiers(tiers []RateTier) error {
	for i, tier := range tiers {
		if tier.MaxQuantity != nil && tier.MaxQuantity.LessThanOrEqual(tier.MinQuantity) {
			return shared.NewDomainError("MALFORMED_RULE",
				fmt.Sprintf("Tier %d has max_quantity <= min_quantity", i))
		}
		if tier.MinQuantity.IsNegative() {
			return shared.NewDomainError("MALFORMED_RULE",
				fmt.Sprintf("Tier %d has negative min_quantity", i))
		}
		for j := i + 1; j < len(tiers); j++ {
			if tier.overlaps(tiers[j]) {
				return shared.NewDomainError("MALFORMED_RULE",
					fmt.Sprintf("Tiers %d and %d have overlapping quantity ranges", i, j))
			}
		}
	}
	return nil
}

// selectTier returns the first tier containing the quantity
func selectTier(tiers []RateTier, qty decimal.Decimal) (RateTier, bool) {
	for _, tier := range tiers {
		if tier.Contains(qty) {
			return tier, true
		}
	}
	return RateTier{}, false
}

// RateTerm holds the matching and pricing fields shared by Rate and
// ContractLine. Absent bounds are unconstrained; validity window bounds are
// inclusive on both ends.
type RateTerm struct {
	TransportMode      TransportMode        `json:"transport_mode,omitempty"`
	RateType           RateType             `json:"rate_type"`
	BaseValue          decimal.Decimal      `json:"base_value"`
	Currency           valueobject.Currency `json:"currency"`
	OriginCountry      string               `json:"origin_country,omitempty"`
	DestinationCountry string               `json:"destination_country,omitempty"`
	OriginZone         string               `json:"origin_zone,omitempty"`
	DestinationZone    string               `json:"destination_zone,omitempty"`
	MinWeightKg        *decimal.Decimal     `json:"min_weight_kg,omitempty"`
	MaxWeightKg        *decimal.Decimal     `json:"max_weight_kg,omitempty"`
	MinVolumeM3        *decimal.Decimal     `json:"min_volume_m3,omitempty"`
	MaxVolumeM3        *decimal.Decimal     `json:"max_volume_m3,omitempty"`
	MinDistanceKm      *decimal.Decimal     `json:"min_distance_km,omitempty"`
	MaxDistanceKm      *decimal.Decimal     `json:"max_distance_km,omitempty"`
	MinQuantity        *decimal.Decimal     `json:"min_quantity,omitempty"`
	MaxQuantity        *decimal.Decimal     `json:"max_quantity,omitempty"`
	EffectiveDate      time.Time            `json:"effective_date"`
	ExpiryDate         *time.Time           `json:"expiry_date,omitempty"`
	Tiers              []RateTier           `json:"tiers,omitempty"`
	DiscountPercent    *decimal.Decimal     `json:"discount_percent,omitempty"`
	MarkupPercent      *decimal.Decimal     `json:"markup_percent,omitempty"`
	Priority           int                  `json:"priority"`
}

// withinBound checks value against optional inclusive [min, max] bounds
func withinBound(value decimal.Decimal, min, max *decimal.Decimal) bool {
	if min != nil && value.LessThan(*min) {
		return false
	}
	if max != nil && value.GreaterThan(*max) {
		return false
	}
	return true
}

// IsValidForDate reports whether the date falls inside the validity window.
// Both effective and expiry dates are inclusive.
func (t RateTerm) IsValidForDate(date time.Time) bool {
	if date.Before(t.EffectiveDate) {
		return false
	}
	if t.ExpiryDate != nil && date.After(*t.ExpiryDate) {
		return false
	}
	return true
}

// matchesScope checks the optional geographic and mode constraints
func (t RateTerm) matchesScope(sctx ShipmentContext) bool {
	if t.TransportMode != "" && t.TransportMode != sctx.TransportMode {
		return false
	}
	if t.OriginCountry != "" && t.OriginCountry != sctx.OriginCountry {
		return false
	}
	if t.DestinationCountry != "" && t.DestinationCountry != sctx.DestinationCountry {
		return false
	}
	if t.OriginZone != "" && t.OriginZone != sctx.OriginZone {
		return false
	}
	if t.DestinationZone != "" && t.DestinationZone != sctx.DestinationZone {
		return false
	}
	return true
}

// IsApplicable reports whether the term matches the shipment context.
// A non-match is a normal negative result, never an error.
func (t RateTerm) IsApplicable(sctx ShipmentContext) bool {
	if !t.IsValidForDate(sctx.ShipmentDate) {
		return false
	}
	if !t.matchesScope(sctx) {
		return false
	}
	if !withinBound(sctx.WeightKg, t.MinWeightKg, t.MaxWeightKg) {
		return false
	}
	if !withinBound(sctx.VolumeM3, t.MinVolumeM3, t.MaxVolumeM3) {
		return false
	}
	if !withinBound(sctx.DistanceKm, t.MinDistanceKm, t.MaxDistanceKm) {
		return false
	}
	if !withinBound(t.QuantityBasis(sctx), t.MinQuantity, t.MaxQuantity) {
		return false
	}
	return true
}

// QuantityBasis returns the quantity the rate type multiplies against
func (t RateTerm) QuantityBasis(sctx ShipmentContext) decimal.Decimal {
	switch t.RateType {
	case RateTypePerKm:
		return sctx.DistanceKm
	case RateTypePerKg:
		return sctx.WeightKg
	case RateTypePerM3:
		return sctx.VolumeM3
	case RateTypePerPallet:
		return sctx.PalletCount
	case RateTypePerContainer:
		return sctx.ContainerCount
	case RateTypePerHour:
		return sctx.Hours
	case RateTypePercentage:
		return sctx.BaseAmount
	case RateTypeFlatRate:
		return decimal.NewFromInt(1)
	default:
		return decimal.Zero
	}
}

// Price computes the amount for the shipment context.
// Tier rate substitutes the base value when a tier matches; discounts and
// markups stack in the order tier discount, term discount, term markup.
// An unrecognized rate type prices as zero; authoring validation keeps new
// records off this path, so only legacy rows can reach it.
func (t RateTerm) Price(sctx ShipmentContext) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	qty := t.QuantityBasis(sctx)

	value := t.BaseValue
	var tierDiscount *decimal.Decimal
	if len(t.Tiers) > 0 {
		if tier, ok := selectTier(t.Tiers, qty); ok {
			value = tier.Rate
			tierDiscount = tier.DiscountPercent
		}
	}

	if tierDiscount != nil {
		value = value.Sub(value.Mul(*tierDiscount).Div(hundred))
	}
	if t.DiscountPercent != nil {
		value = value.Sub(value.Mul(*t.DiscountPercent).Div(hundred))
	}
	if t.MarkupPercent != nil {
		value = value.Add(value.Mul(*t.MarkupPercent).Div(hundred))
	}

	switch t.RateType {
	case RateTypeFlatRate:
		return value
	case RateTypePercentage:
		return sctx.BaseAmount.Mul(value).Div(hundred)
	case RateTypePerKm, RateTypePerKg, RateTypePerM3,
		RateTypePerPallet, RateTypePerContainer, RateTypePerHour:
		return value.Mul(qty)
	default:
		return decimal.Zero
	}
}

// specificity counts the populated scope constraints, used as a tiebreaker
// when several terms share the same priority
func (t RateTerm) specificity() int {
	score := 0
	if t.TransportMode != "" {
		score++
	}
	if t.OriginCountry != "" {
		score++
	}
	if t.DestinationCountry != "" {
		score++
	}
	if t.OriginZone != "" {
		score++
	}
	if t.DestinationZone != "" {
		score++
	}
	return score
}

// validate runs the authoring-time structural checks shared by rates and
// contract lines
func (t RateTerm) validate() error {
	if !t.RateType.IsValid() {
		return shared.NewDomainError("INVALID_RATE_TYPE", fmt.Sprintf("Unknown rate type %q", t.RateType))
	}
	if t.BaseValue.IsNegative() {
		return shared.NewDomainError("INVALID_BASE_VALUE", "Base value cannot be negative")
	}
	if t.Currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if t.Priority < 1 || t.Priority > 10 {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be between 1 and 10")
	}
	if t.EffectiveDate.IsZero() {
		return shared.NewDomainError("INVALID_VALIDITY", "Effective date is required")
	}
	if t.ExpiryDate != nil && t.ExpiryDate.Before(t.EffectiveDate) {
		return shared.NewDomainError("INVALID_VALIDITY", "Expiry date cannot precede effective date")
	}
	return ValidateTiers(t.Tiers)
}

// TermSource identifies where a candidate term came from
type TermSource string

const (
	TermSourceRate         TermSource = "rate"
	TermSourceContractLine TermSource = "contract_line"
)

// CandidateTerm is what the composer selects among: a priced term plus the
// identity needed for deterministic tie-breaking and audit.
type CandidateTerm struct {
	ID     uuid.UUID
	Source TermSource
	Name   string
	Term   RateTerm
}

// Rate is a tenant-authored general rate applicable to shipments matching
// its constraints. Read-only at evaluation time.
type Rate struct {
	shared.TenantAggregateRoot
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	CarrierID *uuid.UUID `json:"carrier_id,omitempty"`
	Term      RateTerm   `json:"term"`
	Active    bool       `json:"active"`
}

// NewRate creates a new rate after authoring-time validation
func NewRate(tenantID uuid.UUID, name, code string, term RateTerm) (*Rate, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Rate name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Rate code cannot be empty")
	}
	if err := term.validate(); err != nil {
		return nil, err
	}
	return &Rate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Term:                term,
		Active:              true,
	}, nil
}

// UpdateTerm replaces the pricing term after re-validation
func (r *Rate) UpdateTerm(term RateTerm) error {
	if err := term.validate(); err != nil {
		return err
	}
	r.Term = term
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Deactivate removes the rate from candidate selection
func (r *Rate) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Candidate converts the rate into a composer candidate
func (r *Rate) Candidate() CandidateTerm {
	return CandidateTerm{
		ID:     r.ID,
		Source: TermSourceRate,
		Name:   r.Name,
		Term:   r.Term,
	}
}

// ContractLine is a negotiated carrier contract line. It prices exactly like
// a rate but is bound to a contract and carrier; contract lines beat general
// rates only through their priority, never implicitly.
type ContractLine struct {
	shared.TenantAggregateRoot
	ContractID  uuid.UUID `json:"contract_id"`
	CarrierID   uuid.UUID `json:"carrier_id"`
	ServiceType string    `json:"service_type"`
	Term        RateTerm  `json:"term"`
	Active      bool      `json:"active"`
}

// NewContractLine creates a new contract line after authoring-time validation
func NewContractLine(tenantID, contractID, carrierID uuid.UUID, serviceType string, term RateTerm) (*ContractLine, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if carrierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier ID cannot be empty")
	}
	if err := term.validate(); err != nil {
		return nil, err
	}
	return &ContractLine{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractID:          contractID,
		CarrierID:           carrierID,
		ServiceType:         serviceType,
		Term:                term,
		Active:              true,
	}, nil
}

// UpdateTerm replaces the pricing term after re-validation
func (l *ContractLine) UpdateTerm(term RateTerm) error {
	if err := term.validate(); err != nil {
		return err
	}
	l.Term = term
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Deactivate removes the contract line from candidate selection
func (l *ContractLine) Deactivate() {
	l.Active = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Candidate converts the contract line into a composer candidate
func (l *ContractLine) Candidate() CandidateTerm {
	return CandidateTerm{
		ID:     l.ID,
		Source: TermSourceContractLine,
		Name:   l.ServiceType,
		Term:   l.Term,
	}
}
