package tariff

import (
	"context"
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
)

// SurchargeService handles surcharge authoring operations
type SurchargeService struct {
	surchgRepo tariff.SurchargeRepository
}

// NewSurchargeService creates a new SurchargeService
func NewSurchargeService(surchgRepo tariff.SurchargeRepository) *SurchargeService {
	return &SurchargeService{surchgRepo: surchgRepo}
}

// CreateSurcharge creates a surcharge. The optional applicability axes are
// assembled before validation so fuel surcharges can carry their index
// parameters from the start.
func (s *SurchargeService) CreateSurcharge(ctx context.Context, tenantID uuid.UUID, req CreateSurchargeRequest) (*SurchargeResponse, error) {
	tiers := make([]tariff.RateTier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, tariff.RateTier{
			MinQuantity:     t.MinQuantity,
			MaxQuantity:     t.MaxQuantity,
			Rate:            t.Rate,
			DiscountPercent: t.DiscountPercent,
		})
	}
	days := make([]time.Weekday, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, shared.NewDomainError("MALFORMED_RULE", "days_of_week values must be 0 (Sunday) through 6 (Saturday)")
		}
		days = append(days, time.Weekday(d))
	}

	surcharge := &tariff.Surcharge{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		Name:                 req.Name,
		SurchargeType:        tariff.SurchargeType(req.SurchargeType),
		CalculationMethod:    tariff.CalculationMethod(req.CalculationMethod),
		Value:                req.Value,
		Currency:             valueCurrency(req.Currency),
		OriginCountry:        strings.ToUpper(req.OriginCountry),
		DestinationCountry:   strings.ToUpper(req.DestinationCountry),
		MinWeightKg:          req.MinWeightKg,
		MaxWeightKg:          req.MaxWeightKg,
		EffectiveDate:        req.EffectiveDate,
		ExpiryDate:           req.ExpiryDate,
		DaysOfWeek:           days,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		MinAmount:            req.MinAmount,
		MaxAmount:            req.MaxAmount,
		Tiers:                tiers,
		Active:               true,
		FuelBasePrice:        req.FuelBasePrice,
		FuelThreshold:        req.FuelThreshold,
		FuelAdjustmentFactor: req.FuelAdjustmentFactor,
	}
	if err := surcharge.Validate(); err != nil {
		return nil, err
	}

	if err := s.surchgRepo.Save(ctx, surcharge); err != nil {
		return nil, err
	}

	resp := ToSurchargeResponse(surcharge)
	return &resp, nil
}

// GetSurcharge retrieves a surcharge by ID
func (s *SurchargeService) GetSurcharge(ctx context.Context, tenantID, surchargeID uuid.UUID) (*SurchargeResponse, error) {
	surcharge, err := s.surchgRepo.FindByIDForTenant(ctx, tenantID, surchargeID)
	if err != nil {
		return nil, err
	}
	resp := ToSurchargeResponse(surcharge)
	return &resp, nil
}

// ListSurcharges lists surcharges with pagination
func (s *SurchargeService) ListSurcharges(ctx context.Context, tenantID uuid.UUID, page, pageSize int) (*ListResponse[SurchargeResponse], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	surcharges, total, err := s.surchgRepo.FindAllForTenant(ctx, tenantID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]SurchargeResponse, 0, len(surcharges))
	for i := range surcharges {
		items = append(items, ToSurchargeResponse(&surcharges[i]))
	}
	return &ListResponse[SurchargeResponse]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DeactivateSurcharge stops a surcharge from applying to new quotes
func (s *SurchargeService) DeactivateSurcharge(ctx context.Context, tenantID, surchargeID uuid.UUID) error {
	surcharge, err := s.surchgRepo.FindByIDForTenant(ctx, tenantID, surchargeID)
	if err != nil {
		return err
	}

	surcharge.Deactivate()
	return s.surchgRepo.Save(ctx, surcharge)
}

// DeleteSurcharge deletes a surcharge
func (s *SurchargeService) DeleteSurcharge(ctx context.Context, tenantID, surchargeID uuid.UUID) error {
	return s.surchgRepo.DeleteForTenant(ctx, tenantID, surchargeID)
}
