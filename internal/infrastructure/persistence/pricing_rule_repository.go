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

// GormPricingRuleRepository implements PricingRuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// FindByIDForTenant finds a pricing rule by ID within a tenant
func (r *GormPricingRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tariff.PricingRule, error) {
	var model models.PricingRuleModel
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

// FindAllForTenant finds all pricing rules for a tenant with pagination
func (r *GormPricingRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]tariff.PricingRule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PricingRuleModel{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ruleModels []models.PricingRuleModel
	offset := (page - 1) * pageSize
	if err := query.Order("priority DESC, name ASC").Offset(offset).Limit(pageSize).Find(&ruleModels).Error; err != nil {
		return nil, 0, err
	}

	rules := make([]tariff.PricingRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules, total, nil
}

// FindActiveForTenant returns the active rules whose validity window contains
// the given date
func (r *GormPricingRuleRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]tariff.PricingRule, error) {
	var ruleModels []models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND effective_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)",
			tenantID, true, at, at).
		Order("priority DESC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]tariff.PricingRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules, nil
}

// Save creates or updates a pricing rule. Usage bookkeeping columns are not
// written here; IncrementUsage is their only write path.
func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *tariff.PricingRule) error {
	model := models.PricingRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Omit("usage_count", "last_used_at").Save(model).Error
}

// IncrementUsage atomically increments a rule's usage counter. The increment
// happens in SQL so concurrent evaluations never under-count.
func (r *GormPricingRuleRepository) IncrementUsage(ctx context.Context, tenantID, id uuid.UUID, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PricingRuleModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": usedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForTenant deletes a pricing rule within a tenant
func (r *GormPricingRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PricingRuleModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPricingRuleRepository implements PricingRuleRepository
var _ tariff.PricingRuleRepository = (*GormPricingRuleRepository)(nil)
