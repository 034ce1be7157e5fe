package tariff

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest carries the shipment parameters to price
type QuoteRequest struct {
	ShipmentDate       time.Time       `json:"shipment_date" binding:"required"`
	TransportMode      string          `json:"transport_mode" binding:"required"`
	ServiceLevel       string          `json:"service_level"`
	OriginCountry      string          `json:"origin_country"`
	DestinationCountry string          `json:"destination_country"`
	OriginZone         string          `json:"origin_zone"`
	DestinationZone    string          `json:"destination_zone"`
	WeightKg           decimal.Decimal `json:"weight_kg"`
	VolumeM3           decimal.Decimal `json:"volume_m3"`
	DistanceKm         decimal.Decimal `json:"distance_km"`
	PalletCount        decimal.Decimal `json:"pallet_count"`
	ContainerCount     decimal.Decimal `json:"container_count"`
	Hours              decimal.Decimal `json:"hours"`
	DeclaredValue      decimal.Decimal `json:"declared_value"`
	Currency           string          `json:"currency"`
	CustomerID         *uuid.UUID      `json:"customer_id"`
	CarrierID          *uuid.UUID      `json:"carrier_id"`
	MonthlyVolume      decimal.Decimal `json:"monthly_volume"`
	AnnualVolume       decimal.Decimal `json:"annual_volume"`

	// CurrentFuelPrice overrides the stored fuel index when supplied
	CurrentFuelPrice *decimal.Decimal `json:"current_fuel_price"`

	// BaseAmount feeds percentage-type rates
	BaseAmount decimal.Decimal `json:"base_amount"`
}

// QuoteResponse is the composed quote with its audit breakdown
type QuoteResponse struct {
	Currency         string                  `json:"currency"`
	TermID           uuid.UUID               `json:"term_id"`
	TermSource       string                  `json:"term_source"`
	TermName         string                  `json:"term_name"`
	BaseCost         decimal.Decimal         `json:"base_cost"`
	Surcharges       []tariff.SurchargeLine  `json:"surcharges"`
	Adjustments      []tariff.AdjustmentLine `json:"adjustments"`
	Warnings         []string                `json:"warnings,omitempty"`
	Total            decimal.Decimal         `json:"total"`
	RequiresApproval bool                    `json:"requires_approval"`
	AppliedRuleIDs   []uuid.UUID             `json:"applied_rule_ids,omitempty"`
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(q *tariff.Quote) QuoteResponse {
	return QuoteResponse{
		Currency:         string(q.Currency),
		TermID:           q.TermID,
		TermSource:       string(q.TermSource),
		TermName:         q.TermName,
		BaseCost:         q.BaseCost,
		Surcharges:       q.Surcharges,
		Adjustments:      q.Adjustments,
		Warnings:         q.Warnings,
		Total:            q.Total,
		RequiresApproval: q.RequiresApproval,
		AppliedRuleIDs:   q.AppliedRuleIDs,
	}
}

// RateTierDTO mirrors a quantity tier in requests and responses
type RateTierDTO struct {
	MinQuantity     decimal.Decimal  `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity"`
	Rate            decimal.Decimal  `json:"rate"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// RateTermDTO carries the shared matching and pricing fields
type RateTermDTO struct {
	TransportMode      string           `json:"transport_mode"`
	RateType           string           `json:"rate_type" binding:"required"`
	BaseValue          decimal.Decimal  `json:"base_value"`
	Currency           string           `json:"currency" binding:"required"`
	OriginCountry      string           `json:"origin_country"`
	DestinationCountry string           `json:"destination_country"`
	OriginZone         string           `json:"origin_zone"`
	DestinationZone    string           `json:"destination_zone"`
	MinWeightKg        *decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg        *decimal.Decimal `json:"max_weight_kg"`
	MinVolumeM3        *decimal.Decimal `json:"min_volume_m3"`
	MaxVolumeM3        *decimal.Decimal `json:"max_volume_m3"`
	MinDistanceKm      *decimal.Decimal `json:"min_distance_km"`
	MaxDistanceKm      *decimal.Decimal `json:"max_distance_km"`
	MinQuantity        *decimal.Decimal `json:"min_quantity"`
	MaxQuantity        *decimal.Decimal `json:"max_quantity"`
	EffectiveDate      time.Time        `json:"effective_date" binding:"required"`
	ExpiryDate         *time.Time       `json:"expiry_date"`
	Tiers              []RateTierDTO    `json:"tiers"`
	DiscountPercent    *decimal.Decimal `json:"discount_percent"`
	MarkupPercent      *decimal.Decimal `json:"markup_percent"`
	Priority           int              `json:"priority" binding:"required,min=1,max=10"`
}

// ToDomainTerm converts the DTO into a domain rate term
func (d RateTermDTO) ToDomainTerm() tariff.RateTerm {
	tiers := make([]tariff.RateTier, 0, len(d.Tiers))
	for _, t := range d.Tiers {
		tiers = append(tiers, tariff.RateTier{
			MinQuantity:     t.MinQuantity,
			MaxQuantity:     t.MaxQuantity,
			Rate:            t.Rate,
			DiscountPercent: t.DiscountPercent,
		})
	}
	return tariff.RateTerm{
		TransportMode:      tariff.TransportMode(d.TransportMode),
		RateType:           tariff.RateType(d.RateType),
		BaseValue:          d.BaseValue,
		Currency:           valueCurrency(d.Currency),
		OriginCountry:      d.OriginCountry,
		DestinationCountry: d.DestinationCountry,
		OriginZone:         d.OriginZone,
		DestinationZone:    d.DestinationZone,
		MinWeightKg:        d.MinWeightKg,
		MaxWeightKg:        d.MaxWeightKg,
		MinVolumeM3:        d.MinVolumeM3,
		MaxVolumeM3:        d.MaxVolumeM3,
		MinDistanceKm:      d.MinDistanceKm,
		MaxDistanceKm:      d.MaxDistanceKm,
		MinQuantity:        d.MinQuantity,
		MaxQuantity:        d.MaxQuantity,
		EffectiveDate:      d.EffectiveDate,
		ExpiryDate:         d.ExpiryDate,
		Tiers:              tiers,
		DiscountPercent:    d.DiscountPercent,
		MarkupPercent:      d.MarkupPercent,
		Priority:           d.Priority,
	}
}

// CreateRateRequest creates a general rate
type CreateRateRequest struct {
	Name      string      `json:"name" binding:"required"`
	Code      string      `json:"code" binding:"required"`
	CarrierID *uuid.UUID  `json:"carrier_id"`
	Term      RateTermDTO `json:"term" binding:"required"`
}

// CreateContractLineRequest creates a carrier contract line
type CreateContractLineRequest struct {
	ContractID  uuid.UUID   `json:"contract_id" binding:"required"`
	CarrierID   uuid.UUID   `json:"carrier_id" binding:"required"`
	ServiceType string      `json:"service_type"`
	Term        RateTermDTO `json:"term" binding:"required"`
}

// RateResponse is the API shape of a rate
type RateResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	CarrierID *uuid.UUID      `json:"carrier_id,omitempty"`
	Term      tariff.RateTerm `json:"term"`
	Active    bool            `json:"active"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToRateResponse converts a domain rate to a response DTO
func ToRateResponse(r *tariff.Rate) RateResponse {
	return RateResponse{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		CarrierID: r.CarrierID,
		Term:      r.Term,
		Active:    r.Active,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateSurchargeRequest creates a surcharge
type CreateSurchargeRequest struct {
	Name                 string           `json:"name" binding:"required"`
	SurchargeType        string           `json:"surcharge_type" binding:"required"`
	CalculationMethod    string           `json:"calculation_method" binding:"required"`
	Value                decimal.Decimal  `json:"value"`
	Currency             string           `json:"currency" binding:"required"`
	OriginCountry        string           `json:"origin_country"`
	DestinationCountry   string           `json:"destination_country"`
	MinWeightKg          *decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg          *decimal.Decimal `json:"max_weight_kg"`
	EffectiveDate        time.Time        `json:"effective_date" binding:"required"`
	ExpiryDate           *time.Time       `json:"expiry_date"`
	DaysOfWeek           []int            `json:"days_of_week"`
	StartTime            string           `json:"start_time"`
	EndTime              string           `json:"end_time"`
	MinAmount            *decimal.Decimal `json:"min_amount"`
	MaxAmount            *decimal.Decimal `json:"max_amount"`
	Tiers                []RateTierDTO    `json:"tiers"`
	FuelBasePrice        *decimal.Decimal `json:"fuel_base_price"`
	FuelThreshold        *decimal.Decimal `json:"fuel_threshold"`
	FuelAdjustmentFactor *decimal.Decimal `json:"fuel_adjustment_factor"`
}

// SurchargeResponse is the API shape of a surcharge
type SurchargeResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	SurchargeType     string          `json:"surcharge_type"`
	CalculationMethod string          `json:"calculation_method"`
	Value             decimal.Decimal `json:"value"`
	Currency          string          `json:"currency"`
	EffectiveDate     time.Time       `json:"effective_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Active            bool            `json:"active"`
	Version           int             `json:"version"`
}

// ToSurchargeResponse converts a domain surcharge to a response DTO
func ToSurchargeResponse(s *tariff.Surcharge) SurchargeResponse {
	return SurchargeResponse{
		ID:                s.ID,
		Name:              s.Name,
		SurchargeType:     string(s.SurchargeType),
		CalculationMethod: string(s.CalculationMethod),
		Value:             s.Value,
		Currency:          string(s.Currency),
		EffectiveDate:     s.EffectiveDate,
		ExpiryDate:        s.ExpiryDate,
		Active:            s.Active,
		Version:           s.Version,
	}
}

// CreatePricingRuleRequest creates a pricing rule
type CreatePricingRuleRequest struct {
	Name          string                `json:"name" binding:"required"`
	RuleType      string                `json:"rule_type" binding:"required"`
	Conditions    tariff.RuleConditions `json:"conditions"`
	Actions       tariff.RuleActions    `json:"actions" binding:"required"`
	Priority      int                   `json:"priority" binding:"required,min=1,max=10"`
	EffectiveDate time.Time             `json:"effective_date" binding:"required"`
	ExpiryDate    *time.Time            `json:"expiry_date"`
}

// PricingRuleResponse is the API shape of a pricing rule
type PricingRuleResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	RuleType      string                `json:"rule_type"`
	Conditions    tariff.RuleConditions `json:"conditions"`
	Actions       tariff.RuleActions    `json:"actions"`
	Priority      int                   `json:"priority"`
	EffectiveDate time.Time             `json:"effective_date"`
	ExpiryDate    *time.Time            `json:"expiry_date,omitempty"`
	Active        bool                  `json:"active"`
	UsageCount    int64                 `json:"usage_count"`
	LastUsedAt    *time.Time            `json:"last_used_at,omitempty"`
	Version       int                   `json:"version"`
}

// ToPricingRuleResponse converts a domain rule to a response DTO
func ToPricingRuleResponse(r *tariff.PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		ID:            r.ID,
		Name:          r.Name,
		RuleType:      string(r.RuleType),
		Conditions:    r.Conditions,
		Actions:       r.Actions,
		Priority:      r.Priority,
		EffectiveDate: r.EffectiveDate,
		ExpiryDate:    r.ExpiryDate,
		Active:        r.Active,
		UsageCount:    r.UsageCount,
		LastUsedAt:    r.LastUsedAt,
		Version:       r.Version,
	}
}

// ListResponse wraps a paged collection
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
