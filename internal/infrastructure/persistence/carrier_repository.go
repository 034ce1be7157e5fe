package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/partner"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCarrierRepository implements CarrierRepository using GORM
type GormCarrierRepository struct {
	db *gorm.DB
}

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// FindByIDForTenant finds a carrier by ID within a tenant
func (r *GormCarrierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Carrier, error) {
	var carrier partner.Carrier
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&carrier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &carrier, nil
}

// FindByCode finds a carrier by its code within a tenant
func (r *GormCarrierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Carrier, error) {
	var carrier partner.Carrier
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&carrier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &carrier, nil
}

// FindAllForTenant finds all carriers for a tenant
func (r *GormCarrierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Carrier, error) {
	var carriers []partner.Carrier
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Carrier{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&carriers).Error; err != nil {
		return nil, err
	}
	return carriers, nil
}

// FindByStatus finds carriers by status for a tenant
func (r *GormCarrierRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status partner.CarrierStatus, filter shared.Filter) ([]partner.Carrier, error) {
	var carriers []partner.Carrier
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Carrier{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&carriers).Error; err != nil {
		return nil, err
	}
	return carriers, nil
}

// FindActive finds all active carriers for a tenant
func (r *GormCarrierRepository) FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Carrier, error) {
	return r.FindByStatus(ctx, tenantID, partner.CarrierStatusActive, filter)
}

// Save creates or updates a carrier
func (r *GormCarrierRepository) Save(ctx context.Context, carrier *partner.Carrier) error {
	return r.db.WithContext(ctx).Save(carrier).Error
}

// DeleteForTenant deletes a carrier within a tenant
func (r *GormCarrierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Carrier{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts carriers for a tenant
func (r *GormCarrierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&partner.Carrier{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a carrier with the given code exists in the tenant
func (r *GormCarrierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Carrier{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCarrierRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering. OrderBy is client-supplied and must stay on the whitelist.
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CarrierSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		// Default ordering
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCarrierRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR scac ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "min_rating":
			query = query.Where("on_time_rating >= ?", value)
		case "supports_mode":
			if mode, ok := value.(string); ok && mode != "" {
				query = query.Where("supported_modes = '' OR supported_modes LIKE ?", "%"+mode+"%")
			}
		case "has_balance":
			if value == true {
				query = query.Where("balance > 0")
			} else {
				query = query.Where("balance = 0")
			}
		}
	}

	return query
}

// Ensure GormCarrierRepository implements CarrierRepository
var _ partner.CarrierRepository = (*GormCarrierRepository)(nil)
