package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSurchargeRepository implements SurchargeRepository using GORM
type GormSurchargeRepository struct {
	db *gorm.DB
}

// NewGormSurchargeRepository creates a new GormSurchargeRepository
func NewGormSurchargeRepository(db *gorm.DB) *GormSurchargeRepository {
	return &GormSurchargeRepository{db: db}
}

// FindByIDForTenant finds a surcharge by ID within a tenant
func (r *GormSurchargeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tariff.Surcharge, error) {
	var model models.SurchargeModel
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

// FindAllForTenant finds all surcharges for a tenant with pagination
func (r *GormSurchargeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]tariff.Surcharge, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SurchargeModel{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var surchargeModels []models.SurchargeModel
	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&surchargeModels).Error; err != nil {
		return nil, 0, err
	}

	surcharges := make([]tariff.Surcharge, len(surchargeModels))
	for i := range surchargeModels {
		surcharges[i] = *surchargeModels[i].ToDomain()
	}
	return surcharges, total, nil
}

// FindActiveForTenant returns the active surcharges whose validity window
// contains the given date
func (r *GormSurchargeRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]tariff.Surcharge, error) {
	var surchargeModels []models.SurchargeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)",
			tenantID, true, at, at).
		Find(&surchargeModels).Error; err != nil {
		return nil, err
	}

	surcharges := make([]tariff.Surcharge, len(surchargeModels))
	for i := range surchargeModels {
		surcharges[i] = *surchargeModels[i].ToDomain()
	}
	return surcharges, nil
}

// Save creates or updates a surcharge
func (r *GormSurchargeRepository) Save(ctx context.Context, surcharge *tariff.Surcharge) error {
	model := models.SurchargeModelFromDomain(surcharge)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a surcharge within a tenant
func (r *GormSurchargeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SurchargeModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSurchargeRepository implements SurchargeRepository
var _ tariff.SurchargeRepository = (*GormSurchargeRepository)(nil)
