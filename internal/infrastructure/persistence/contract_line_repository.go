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

// GormContractLineRepository implements ContractLineRepository using GORM
type GormContractLineRepository struct {
	db *gorm.DB
}

// NewGormContractLineRepository creates a new GormContractLineRepository
func NewGormContractLineRepository(db *gorm.DB) *GormContractLineRepository {
	return &GormContractLineRepository{db: db}
}

// FindByIDForTenant finds a contract line by ID within a tenant
func (r *GormContractLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tariff.ContractLine, error) {
	var model models.ContractLineModel
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

// FindByContract finds the lines of a contract
func (r *GormContractLineRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]tariff.ContractLine, error) {
	var lineModels []models.ContractLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contract_id = ?", tenantID, contractID).
		Order("created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainLines(lineModels), nil
}

// FindActiveForTenant returns the active contract lines whose validity window
// contains the given date
func (r *GormContractLineRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]tariff.ContractLine, error) {
	var lineModels []models.ContractLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)",
			tenantID, true, at, at).
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainLines(lineModels), nil
}

// FindActiveForCarrier returns a carrier's active lines valid at the given date
func (r *GormContractLineRepository) FindActiveForCarrier(ctx context.Context, tenantID, carrierID uuid.UUID, at time.Time) ([]tariff.ContractLine, error) {
	var lineModels []models.ContractLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND carrier_id = ? AND active = ? AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)",
			tenantID, carrierID, true, at, at).
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainLines(lineModels), nil
}

// Save creates or updates a contract line
func (r *GormContractLineRepository) Save(ctx context.Context, line *tariff.ContractLine) error {
	model := models.ContractLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a contract line with optimistic locking on the version column
func (r *GormContractLineRepository) SaveWithLock(ctx context.Context, line *tariff.ContractLine) error {
	model := models.ContractLineModelFromDomain(line)
	result := r.db.WithContext(ctx).
		Model(&models.ContractLineModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", model.ID, model.TenantID, model.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Contract line was modified by another operation")
	}
	return nil
}

// DeleteForTenant deletes a contract line within a tenant
func (r *GormContractLineRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractLineModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainLines(lineModels []models.ContractLineModel) []tariff.ContractLine {
	lines := make([]tariff.ContractLine, len(lineModels))
	for i := range lineModels {
		lines[i] = *lineModels[i].ToDomain()
	}
	return lines
}

// Ensure GormContractLineRepository implements ContractLineRepository
var _ tariff.ContractLineRepository = (*GormContractLineRepository)(nil)
