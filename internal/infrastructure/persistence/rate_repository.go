package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRateRepository implements RateRepository using GORM
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// FindByIDForTenant finds a rate by ID within a tenant
func (r *GormRateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tariff.Rate, error) {
	var model models.RateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all rates for a tenant with filtering
func (r *GormRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter tariff.RateFilter) ([]tariff.Rate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RateModel{}).Where("tenant_id = ?", tenantID)

	if filter.TransportMode != nil {
		query = query.Where("transport_mode = ?", string(*filter.TransportMode))
	}
	if filter.CarrierID != nil {
		query = query.Where("carrier_id = ?", *filter.CarrierID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rateModels []models.RateModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("code ASC").Offset(offset).Limit(filter.PageSize).Find(&rateModels).Error; err != nil {
		return nil, 0, err
	}

	rates := make([]tariff.Rate, len(rateModels))
	for i := range rateModels {
		rates[i] = *rateModels[i].ToDomain()
	}
	return rates, total, nil
}

// FindActiveForTenant returns the active rates whose validity window contains
// the given date
func (r *GormRateRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]tariff.Rate, error) {
	var rateModels []models.RateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)",
			tenantID, true, at, at).
		Find(&rateModels).Error; err != nil {
		return nil, err
	}

	rates := make([]tariff.Rate, len(rateModels))
	for i := range rateModels {
		rates[i] = *rateModels[i].ToDomain()
	}
	return rates, nil
}

// Save creates or updates a rate
func (r *GormRateRepository) Save(ctx context.Context, rate *tariff.Rate) error {
	model := models.RateModelFromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a rate with optimistic locking on the version column
func (r *GormRateRepository) SaveWithLock(ctx context.Context, rate *tariff.Rate) error {
	model := models.RateModelFromDomain(rate)
	result := r.db.WithContext(ctx).
		Model(&models.RateModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", model.ID, model.TenantID, model.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Rate was modified by another operation")
	}
	return nil
}

// DeleteForTenant deletes a rate within a tenant
func (r *GormRateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RateModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a rate with the given code exists in the tenant
func (r *GormRateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RateModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormRateRepository implements RateRepository
var _ tariff.RateRepository = (*GormRateRepository)(nil)
