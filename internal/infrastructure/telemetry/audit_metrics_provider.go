// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditMetricsProvider implements AuditMetricsProvider using GORM.
// It queries the carrier_invoices table directly for aggregated metrics.
type GormAuditMetricsProvider struct {
	db *gorm.DB
}

// NewGormAuditMetricsProvider creates a new GormAuditMetricsProvider.
func NewGormAuditMetricsProvider(db *gorm.DB) *GormAuditMetricsProvider {
	return &GormAuditMetricsProvider{db: db}
}

// GetPendingReviewCountByCarrier returns the number of invoices awaiting manual review per carrier for a tenant.
func (p *GormAuditMetricsProvider) GetPendingReviewCountByCarrier(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		CarrierID    uuid.UUID `gorm:"column:carrier_id"`
		PendingCount int64     `gorm:"column:pending_count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("carrier_invoices").
		Select("carrier_id, COUNT(*) as pending_count").
		Where("tenant_id = ? AND requires_manual_review = ?", tenantID, true).
		Where("status NOT IN ?", []string{"approved", "rejected", "paid"}).
		Group("carrier_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.CarrierID] = r.PendingCount
	}

	return m, nil
}

// GetOpenAnomalyCount returns the number of invoices with unresolved anomalies for a tenant.
func (p *GormAuditMetricsProvider) GetOpenAnomalyCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("carrier_invoices").
		Where("tenant_id = ?", tenantID).
		Where("validation_status = ?", "failed").
		Where("status NOT IN ?", []string{"approved", "rejected", "paid"}).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
// Active tenants are derived from the carriers table since the engine
// does not own a tenant registry.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all tenant IDs with at least one carrier.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("carriers").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}
