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

// GormSiteRepository implements SiteRepository using GORM
type GormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// FindByIDForTenant finds a site by ID within a tenant
func (r *GormSiteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Site, error) {
	var site fleet.Site
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// FindByCode finds a site by its code within a tenant
func (r *GormSiteRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*fleet.Site, error) {
	var site fleet.Site
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// FindAllForTenant finds all sites for a tenant
func (r *GormSiteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Site, error) {
	var sites []fleet.Site
	query := r.db.WithContext(ctx).Model(&fleet.Site{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?", searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("code ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// FindByZone finds sites belonging to a tariff zone for a tenant
func (r *GormSiteRepository) FindByZone(ctx context.Context, tenantID uuid.UUID, zone string) ([]fleet.Site, error) {
	var sites []fleet.Site
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND zone = ? AND active = ?", tenantID, zone, true).
		Order("code ASC").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// Save creates or updates a site
func (r *GormSiteRepository) Save(ctx context.Context, site *fleet.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// DeleteForTenant deletes a site within a tenant
func (r *GormSiteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&fleet.Site{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSiteRepository implements SiteRepository
var _ fleet.SiteRepository = (*GormSiteRepository)(nil)
