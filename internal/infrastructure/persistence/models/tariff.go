package models

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateModel is the persistence model for the Rate aggregate root.
// The pricing term is stored as a JSONB document; the validity window and
// activity flag are promoted to columns so candidate queries stay in SQL.
type RateModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(200);not null"`
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_rate_tenant_code,priority:2"`
	CarrierID     *uuid.UUID      `gorm:"type:uuid;index"`
	TransportMode string          `gorm:"type:varchar(20);index"`
	Term          tariff.RateTerm `gorm:"type:jsonb;serializer:json"`
	EffectiveDate time.Time       `gorm:"not null;index"`
	ExpiryDate    *time.Time      `gorm:"index"`
	Active        bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RateModel) TableName() string {
	return "rates"
}

// ToDomain converts the persistence model to a domain Rate entity.
func (m *RateModel) ToDomain() *tariff.Rate {
	r := &tariff.Rate{
		Name:      m.Name,
		Code:      m.Code,
		CarrierID: m.CarrierID,
		Term:      m.Term,
		Active:    m.Active,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Rate entity.
func (m *RateModel) FromDomain(r *tariff.Rate) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.Code = r.Code
	m.CarrierID = r.CarrierID
	m.TransportMode = string(r.Term.TransportMode)
	m.Term = r.Term
	m.EffectiveDate = r.Term.EffectiveDate
	m.ExpiryDate = r.Term.ExpiryDate
	m.Active = r.Active
}

// RateModelFromDomain creates a new persistence model from a domain Rate.
func RateModelFromDomain(r *tariff.Rate) *RateModel {
	m := &RateModel{}
	m.FromDomain(r)
	return m
}

// ContractLineModel is the persistence model for the ContractLine aggregate root.
type ContractLineModel struct {
	TenantAggregateModel
	ContractID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CarrierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceType   string          `gorm:"type:varchar(100)"`
	TransportMode string          `gorm:"type:varchar(20);index"`
	Term          tariff.RateTerm `gorm:"type:jsonb;serializer:json"`
	EffectiveDate time.Time       `gorm:"not null;index"`
	ExpiryDate    *time.Time      `gorm:"index"`
	Active        bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ContractLineModel) TableName() string {
	return "contract_lines"
}

// ToDomain converts the persistence model to a domain ContractLine entity.
func (m *ContractLineModel) ToDomain() *tariff.ContractLine {
	l := &tariff.ContractLine{
		ContractID:  m.ContractID,
		CarrierID:   m.CarrierID,
		ServiceType: m.ServiceType,
		Term:        m.Term,
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&l.TenantAggregateRoot)
	return l
}

// FromDomain populates the persistence model from a domain ContractLine entity.
func (m *ContractLineModel) FromDomain(l *tariff.ContractLine) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.ContractID = l.ContractID
	m.CarrierID = l.CarrierID
	m.ServiceType = l.ServiceType
	m.TransportMode = string(l.Term.TransportMode)
	m.Term = l.Term
	m.EffectiveDate = l.Term.EffectiveDate
	m.ExpiryDate = l.Term.ExpiryDate
	m.Active = l.Active
}

// ContractLineModelFromDomain creates a new persistence model from a domain ContractLine.
func ContractLineModelFromDomain(l *tariff.ContractLine) *ContractLineModel {
	m := &ContractLineModel{}
	m.FromDomain(l)
	return m
}

// SurchargeModel is the persistence model for the Surcharge aggregate root.
// Quantity tiers and day-of-week windows are JSONB documents.
type SurchargeModel struct {
	TenantAggregateModel
	Name                 string            `gorm:"type:varchar(200);not null"`
	SurchargeType        string            `gorm:"type:varchar(30);not null;index"`
	CalculationMethod    string            `gorm:"type:varchar(30);not null"`
	Value                decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Currency             string            `gorm:"type:varchar(3);not null"`
	OriginCountry        string            `gorm:"type:varchar(2)"`
	DestinationCountry   string            `gorm:"type:varchar(2)"`
	MinWeightKg          *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	MaxWeightKg          *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	MinVolumeM3          *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	MaxVolumeM3          *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	EffectiveDate        time.Time         `gorm:"not null;index"`
	ExpiryDate           *time.Time        `gorm:"index"`
	DaysOfWeek           []time.Weekday    `gorm:"type:jsonb;serializer:json"`
	StartTime            string            `gorm:"type:varchar(5)"`
	EndTime              string            `gorm:"type:varchar(5)"`
	MinAmount            *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	MaxAmount            *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	Tiers                []tariff.RateTier `gorm:"type:jsonb;serializer:json"`
	Active               bool              `gorm:"not null;default:true;index"`
	FuelBasePrice        *decimal.Decimal  `gorm:"type:decimal(12,4)"`
	FuelThreshold        *decimal.Decimal  `gorm:"type:decimal(12,4)"`
	FuelAdjustmentFactor *decimal.Decimal  `gorm:"type:decimal(12,4)"`
}

// TableName returns the table name for GORM
func (SurchargeModel) TableName() string {
	return "surcharges"
}

// ToDomain converts the persistence model to a domain Surcharge entity.
func (m *SurchargeModel) ToDomain() *tariff.Surcharge {
	s := &tariff.Surcharge{
		Name:                 m.Name,
		SurchargeType:        tariff.SurchargeType(m.SurchargeType),
		CalculationMethod:    tariff.CalculationMethod(m.CalculationMethod),
		Value:                m.Value,
		Currency:             valueobject.Currency(m.Currency),
		OriginCountry:        m.OriginCountry,
		DestinationCountry:   m.DestinationCountry,
		MinWeightKg:          m.MinWeightKg,
		MaxWeightKg:          m.MaxWeightKg,
		MinVolumeM3:          m.MinVolumeM3,
		MaxVolumeM3:          m.MaxVolumeM3,
		EffectiveDate:        m.EffectiveDate,
		ExpiryDate:           m.ExpiryDate,
		DaysOfWeek:           m.DaysOfWeek,
		StartTime:            m.StartTime,
		EndTime:              m.EndTime,
		MinAmount:            m.MinAmount,
		MaxAmount:            m.MaxAmount,
		Tiers:                m.Tiers,
		Active:               m.Active,
		FuelBasePrice:        m.FuelBasePrice,
		FuelThreshold:        m.FuelThreshold,
		FuelAdjustmentFactor: m.FuelAdjustmentFactor,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Surcharge entity.
func (m *SurchargeModel) FromDomain(s *tariff.Surcharge) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.SurchargeType = string(s.SurchargeType)
	m.CalculationMethod = string(s.CalculationMethod)
	m.Value = s.Value
	m.Currency = string(s.Currency)
	m.OriginCountry = s.OriginCountry
	m.DestinationCountry = s.DestinationCountry
	m.MinWeightKg = s.MinWeightKg
	m.MaxWeightKg = s.MaxWeightKg
	m.MinVolumeM3 = s.MinVolumeM3
	m.MaxVolumeM3 = s.MaxVolumeM3
	m.EffectiveDate = s.EffectiveDate
	m.ExpiryDate = s.ExpiryDate
	m.DaysOfWeek = s.DaysOfWeek
	m.StartTime = s.StartTime
	m.EndTime = s.EndTime
	m.MinAmount = s.MinAmount
	m.MaxAmount = s.MaxAmount
	m.Tiers = s.Tiers
	m.Active = s.Active
	m.FuelBasePrice = s.FuelBasePrice
	m.FuelThreshold = s.FuelThreshold
	m.FuelAdjustmentFactor = s.FuelAdjustmentFactor
}

// SurchargeModelFromDomain creates a new persistence model from a domain Surcharge.
func SurchargeModelFromDomain(s *tariff.Surcharge) *SurchargeModel {
	m := &SurchargeModel{}
	m.FromDomain(s)
	return m
}

// PricingRuleModel is the persistence model for the PricingRule aggregate root.
// Conditions and actions are JSONB documents; usage bookkeeping columns are
// written only through the atomic IncrementUsage update.
type PricingRuleModel struct {
	TenantAggregateModel
	Name          string                `gorm:"type:varchar(200);not null"`
	RuleType      string                `gorm:"type:varchar(30);not null;index"`
	Conditions    tariff.RuleConditions `gorm:"type:jsonb;serializer:json"`
	Actions       tariff.RuleActions    `gorm:"type:jsonb;serializer:json"`
	Priority      int                   `gorm:"not null;default:5;index"`
	EffectiveDate time.Time             `gorm:"not null;index"`
	ExpiryDate    *time.Time            `gorm:"index"`
	Active        bool                  `gorm:"not null;default:true;index"`
	UsageCount    int64                 `gorm:"not null;default:0"`
	LastUsedAt    *time.Time
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain PricingRule entity.
func (m *PricingRuleModel) ToDomain() *tariff.PricingRule {
	r := &tariff.PricingRule{
		Name:          m.Name,
		RuleType:      tariff.RuleType(m.RuleType),
		Conditions:    m.Conditions,
		Actions:       m.Actions,
		Priority:      m.Priority,
		EffectiveDate: m.EffectiveDate,
		ExpiryDate:    m.ExpiryDate,
		Active:        m.Active,
		UsageCount:    m.UsageCount,
		LastUsedAt:    m.LastUsedAt,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain PricingRule entity.
func (m *PricingRuleModel) FromDomain(r *tariff.PricingRule) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.RuleType = string(r.RuleType)
	m.Conditions = r.Conditions
	m.Actions = r.Actions
	m.Priority = r.Priority
	m.EffectiveDate = r.EffectiveDate
	m.ExpiryDate = r.ExpiryDate
	m.Active = r.Active
	m.UsageCount = r.UsageCount
	m.LastUsedAt = r.LastUsedAt
}

// PricingRuleModelFromDomain creates a new persistence model from a domain PricingRule.
func PricingRuleModelFromDomain(r *tariff.PricingRule) *PricingRuleModel {
	m := &PricingRuleModel{}
	m.FromDomain(r)
	return m
}
