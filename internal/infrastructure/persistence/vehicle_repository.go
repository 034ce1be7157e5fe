package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/fleet"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByIDForTenant finds a vehicle by ID within a tenant
func (r *GormVehicleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Vehicle, error) {
	var vehicle fleet.Vehicle
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByRegistration finds a vehicle by registration number within a tenant
func (r *GormVehicleRepository) FindByRegistration(ctx context.Context, tenantID uuid.UUID, registrationNumber string) (*fleet.Vehicle, error) {
	var vehicle fleet.Vehicle
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND registration_number = ?", tenantID, strings.ToUpper(registrationNumber)).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindAllForTenant finds all vehicles for a tenant
func (r *GormVehicleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Vehicle, error) {
	var vehicles []fleet.Vehicle
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fleet.Vehicle{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindByStatus finds vehicles by status for a tenant
func (r *GormVehicleRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status fleet.VehicleStatus, filter shared.Filter) ([]fleet.Vehicle, error) {
	var vehicles []fleet.Vehicle
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fleet.Vehicle{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Save creates or updates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *fleet.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// DeleteForTenant deletes a vehicle within a tenant
func (r *GormVehicleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fleet.Vehicle{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormVehicleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("registration_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "transport_mode":
			query = query.Where("transport_mode = ?", value)
		case "carrier_id":
			query = query.Where("carrier_id = ?", value)
		case "home_site_id":
			query = query.Where("home_site_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("registration_number ASC")
}

// Ensure GormVehicleRepository implements VehicleRepository
var _ fleet.VehicleRepository = (*GormVehicleRepository)(nil)
