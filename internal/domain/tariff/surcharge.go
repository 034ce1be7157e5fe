package tariff

import (
	"fmt"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SurchargeType classifies what a surcharge compensates for
type SurchargeType string

const (
	SurchargeTypeFuel       SurchargeType = "fuel"
	SurchargeTypeToll       SurchargeType = "toll"
	SurchargeTypeSecurity   SurchargeType = "security"
	SurchargeTypeCustoms    SurchargeType = "customs"
	SurchargeTypeHandling   SurchargeType = "handling"
	SurchargeTypeStorage    SurchargeType = "storage"
	SurchargeTypeInsurance  SurchargeType = "insurance"
	SurchargeTypeCurrency   SurchargeType = "currency"
	SurchargeTypePeakSeason SurchargeType = "peak_season"
	SurchargeTypeOther      SurchargeType = "other"
)

// IsValid checks if the surcharge type is a known value
func (t SurchargeType) IsValid() bool {
	switch t {
	case SurchargeTypeFuel, SurchargeTypeToll, SurchargeTypeSecurity,
		SurchargeTypeCustoms, SurchargeTypeHandling, SurchargeTypeStorage,
		SurchargeTypeInsurance, SurchargeTypeCurrency, SurchargeTypePeakSeason,
		SurchargeTypeOther:
		return true
	}
	return false
}

// String returns the string representation of SurchargeType
func (t SurchargeType) String() string {
	return string(t)
}

// CalculationMethod selects how a surcharge value turns into an amount
type CalculationMethod string

const (
	CalculationMethodPercentage   CalculationMethod = "percentage"
	CalculationMethodFixedAmount  CalculationMethod = "fixed_amount"
	CalculationMethodPerKm        CalculationMethod = "per_km"
	CalculationMethodPerKg        CalculationMethod = "per_kg"
	CalculationMethodPerM3        CalculationMethod = "per_m3"
	CalculationMethodPerPallet    CalculationMethod = "per_pallet"
	CalculationMethodPerContainer CalculationMethod = "per_container"
	CalculationMethodPerHour      CalculationMethod = "per_hour"
)

// IsValid checks if the calculation method is a known value
func (m CalculationMethod) IsValid() bool {
	switch m {
	case CalculationMethodPercentage, CalculationMethodFixedAmount,
		CalculationMethodPerKm, CalculationMethodPerKg, CalculationMethodPerM3,
		CalculationMethodPerPallet, CalculationMethodPerContainer, CalculationMethodPerHour:
		return true
	}
	return false
}

// String returns the string representation of CalculationMethod
func (m CalculationMethod) String() string {
	return string(m)
}

// quantityBasisForMethod returns the quantity a per-unit calculation method
// multiplies against
func quantityBasisForMethod(method CalculationMethod, sctx ShipmentContext) decimal.Decimal {
	switch method {
	case CalculationMethodPerKm:
		return sctx.DistanceKm
	case CalculationMethodPerKg:
		return sctx.WeightKg
	case CalculationMethodPerM3:
		return sctx.VolumeM3
	case CalculationMethodPerPallet:
		return sctx.PalletCount
	case CalculationMethodPerContainer:
		return sctx.ContainerCount
	case CalculationMethodPerHour:
		return sctx.Hours
	default:
		return decimal.NewFromInt(1)
	}
}

// Surcharge is an additive or percentage charge layered on top of the base
// rate, conditionally applicable. Read-only at evaluation time.
type Surcharge struct {
	shared.TenantAggregateRoot
	Name               string               `json:"name"`
	SurchargeType      SurchargeType        `json:"surcharge_type"`
	CalculationMethod  CalculationMethod    `json:"calculation_method"`
	Value              decimal.Decimal      `json:"value"`
	Currency           valueobject.Currency `json:"currency"`
	OriginCountry      string               `json:"origin_country,omitempty"`
	DestinationCountry string               `json:"destination_country,omitempty"`
	MinWeightKg        *decimal.Decimal     `json:"min_weight_kg,omitempty"`
	MaxWeightKg        *decimal.Decimal     `json:"max_weight_kg,omitempty"`
	MinVolumeM3        *decimal.Decimal     `json:"min_volume_m3,omitempty"`
	MaxVolumeM3        *decimal.Decimal     `json:"max_volume_m3,omitempty"`
	EffectiveDate      time.Time            `json:"effective_date"`
	ExpiryDate         *time.Time           `json:"expiry_date,omitempty"`
	DaysOfWeek         []time.Weekday       `json:"days_of_week,omitempty"`
	StartTime          string               `json:"start_time,omitempty"` // "HH:MM"
	EndTime            string               `json:"end_time,omitempty"`   // "HH:MM"
	MinAmount          *decimal.Decimal     `json:"min_amount,omitempty"`
	MaxAmount          *decimal.Decimal     `json:"max_amount,omitempty"`
	Tiers              []RateTier           `json:"tiers,omitempty"`
	Active             bool                 `json:"active"`

	// Fuel-type only: the surcharge activates when the current fuel index
	// price exceeds the threshold.
	FuelBasePrice        *decimal.Decimal `json:"fuel_base_price,omitempty"`
	FuelThreshold        *decimal.Decimal `json:"fuel_threshold,omitempty"`
	FuelAdjustmentFactor *decimal.Decimal `json:"fuel_adjustment_factor,omitempty"`
}

// NewSurcharge creates a new surcharge after authoring-time validation
func NewSurcharge(tenantID uuid.UUID, name string, surchargeType SurchargeType, method CalculationMethod, value decimal.Decimal, currency valueobject.Currency, effectiveDate time.Time) (*Surcharge, error) {
	s := &Surcharge{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SurchargeType:       surchargeType,
		CalculationMethod:   method,
		Value:               value,
		Currency:            currency,
		EffectiveDate:       effectiveDate,
		Active:              true,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate runs the authoring-time structural checks
func (s *Surcharge) Validate() error {
	if s.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Surcharge name cannot be empty")
	}
	if !s.SurchargeType.IsValid() {
		return shared.NewDomainError("INVALID_SURCHARGE_TYPE", fmt.Sprintf("Unknown surcharge type %q", s.SurchargeType))
	}
	if !s.CalculationMethod.IsValid() {
		return shared.NewDomainError("INVALID_CALCULATION_METHOD", fmt.Sprintf("Unknown calculation method %q", s.CalculationMethod))
	}
	if s.Currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if s.EffectiveDate.IsZero() {
		return shared.NewDomainError("INVALID_VALIDITY", "Effective date is required")
	}
	if s.ExpiryDate != nil && s.ExpiryDate.Before(s.EffectiveDate) {
		return shared.NewDomainError("INVALID_VALIDITY", "Expiry date cannot precede effective date")
	}
	if s.MinAmount != nil && s.MaxAmount != nil && s.MaxAmount.LessThan(*s.MinAmount) {
		return shared.NewDomainError("INVALID_CLAMP", "max_amount cannot be below min_amount")
	}
	if s.SurchargeType == SurchargeTypeFuel {
		if s.FuelThreshold == nil || s.FuelAdjustmentFactor == nil {
			return shared.NewDomainError("MALFORMED_RULE", "Fuel surcharge requires fuel_threshold and fuel_adjustment_factor")
		}
	}
	return ValidateTiers(s.Tiers)
}

// matchesTimeWindows checks the optional day-of-week and time-of-day windows
// against the shipment date
func (s *Surcharge) matchesTimeWindows(at time.Time) bool {
	if len(s.DaysOfWeek) > 0 {
		found := false
		for _, day := range s.DaysOfWeek {
			if at.Weekday() == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	clock := at.Format("15:04")
	if s.StartTime != "" && clock < s.StartTime {
		return false
	}
	if s.EndTime != "" && clock > s.EndTime {
		return false
	}
	return true
}

// IsApplicable reports whether the surcharge matches the shipment context.
// Mirrors rate applicability plus the day-of-week and time-of-day windows,
// both checked against the shipment date.
func (s *Surcharge) IsApplicable(sctx ShipmentContext) bool {
	if !s.Active {
		return false
	}
	if sctx.ShipmentDate.Before(s.EffectiveDate) {
		return false
	}
	if s.ExpiryDate != nil && sctx.ShipmentDate.After(*s.ExpiryDate) {
		return false
	}
	if s.OriginCountry != "" && s.OriginCountry != sctx.OriginCountry {
		return false
	}
	if s.DestinationCountry != "" && s.DestinationCountry != sctx.DestinationCountry {
		return false
	}
	if !withinBound(sctx.WeightKg, s.MinWeightKg, s.MaxWeightKg) {
		return false
	}
	if !withinBound(sctx.VolumeM3, s.MinVolumeM3, s.MaxVolumeM3) {
		return false
	}
	return s.matchesTimeWindows(sctx.ShipmentDate)
}

// Compute calculates the surcharge amount for the given base amount.
// Fuel surcharges return zero while the current fuel price stays at or
// below the threshold; otherwise the calculation value becomes
// (current - threshold) * adjustment_factor. The result is clamped into
// [min_amount, max_amount], min applied first.
func (s *Surcharge) Compute(baseAmount decimal.Decimal, sctx ShipmentContext) decimal.Decimal {
	value := s.Value
	if len(s.Tiers) > 0 {
		qty := quantityBasisForMethod(s.CalculationMethod, sctx)
		if tier, ok := selectTier(s.Tiers, qty); ok {
			value = tier.Rate
		}
	}

	if s.SurchargeType == SurchargeTypeFuel {
		if s.FuelThreshold == nil || s.FuelAdjustmentFactor == nil {
			return decimal.Zero
		}
		if sctx.CurrentFuelPrice.LessThanOrEqual(*s.FuelThreshold) {
			return decimal.Zero
		}
		value = sctx.CurrentFuelPrice.Sub(*s.FuelThreshold).Mul(*s.FuelAdjustmentFactor)
	}

	var amount decimal.Decimal
	switch s.CalculationMethod {
	case CalculationMethodPercentage:
		amount = baseAmount.Mul(value).Div(decimal.NewFromInt(100))
	case CalculationMethodFixedAmount:
		amount = value
	case CalculationMethodPerKm, CalculationMethodPerKg, CalculationMethodPerM3,
		CalculationMethodPerPallet, CalculationMethodPerContainer, CalculationMethodPerHour:
		amount = value.Mul(quantityBasisForMethod(s.CalculationMethod, sctx))
	default:
		// unknown method computes as flat value, matching the source
		// system's lenient default
		amount = value
	}

	if s.MinAmount != nil && amount.LessThan(*s.MinAmount) {
		amount = *s.MinAmount
	}
	if s.MaxAmount != nil && amount.GreaterThan(*s.MaxAmount) {
		amount = *s.MaxAmount
	}
	return amount
}

// Deactivate removes the surcharge from evaluation
func (s *Surcharge) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
