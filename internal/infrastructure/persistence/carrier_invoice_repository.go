package persistence

import (
	"context"
	"errors"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCarrierInvoiceRepository implements CarrierInvoiceRepository using GORM
type GormCarrierInvoiceRepository struct {
	db *gorm.DB
}

// NewGormCarrierInvoiceRepository creates a new GormCarrierInvoiceRepository
func NewGormCarrierInvoiceRepository(db *gorm.DB) *GormCarrierInvoiceRepository {
	return &GormCarrierInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID for a specific tenant
func (r *GormCarrierInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.CarrierInvoice, error) {
	var model models.CarrierInvoiceModel
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

// FindByInvoiceNumber finds by carrier invoice number for a tenant
func (r *GormCarrierInvoiceRepository) FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*invoicing.CarrierInvoice, error) {
	var model models.CarrierInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByInvoiceNumber checks if an invoice number is already registered for
// a carrier
func (r *GormCarrierInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, tenantID, carrierID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CarrierInvoiceModel{}).
		Where("tenant_id = ? AND carrier_id = ? AND invoice_number = ?", tenantID, carrierID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant finds all invoices for a tenant with filtering
func (r *GormCarrierInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter invoicing.CarrierInvoiceFilter) ([]invoicing.CarrierInvoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CarrierInvoiceModel{}).Where("tenant_id = ?", tenantID)

	if filter.CarrierID != nil {
		query = query.Where("carrier_id = ?", *filter.CarrierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ValidationStatus != nil {
		query = query.Where("validation_status = ?", string(*filter.ValidationStatus))
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR carrier_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.CarrierInvoiceModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("invoice_date DESC, invoice_number ASC").
		Offset(offset).Limit(filter.PageSize).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainInvoices(invoiceModels), total, nil
}

// FindPendingReview finds invoices awaiting review for a tenant
func (r *GormCarrierInvoiceRepository) FindPendingReview(ctx context.Context, tenantID uuid.UUID) ([]invoicing.CarrierInvoice, error) {
	var invoiceModels []models.CarrierInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (status IN ? OR requires_manual_review = ?)",
			tenantID,
			[]string{string(invoicing.StatusReceived), string(invoicing.StatusUnderReview)},
			true).
		Order("invoice_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Save creates or updates an invoice
func (r *GormCarrierInvoiceRepository) Save(ctx context.Context, invoice *invoicing.CarrierInvoice) error {
	model := models.CarrierInvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the version column. The
// domain has already incremented the version, so the row must still hold the
// previous one; zero rows affected means another operation won the race.
func (r *GormCarrierInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.CarrierInvoice) error {
	model := models.CarrierInvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&models.CarrierInvoiceModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", model.ID, model.TenantID, model.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Invoice was modified by another operation")
	}
	return nil
}

// DeleteForTenant deletes an invoice for a tenant
func (r *GormCarrierInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CarrierInvoiceModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainInvoices(invoiceModels []models.CarrierInvoiceModel) []invoicing.CarrierInvoice {
	invoices := make([]invoicing.CarrierInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormCarrierInvoiceRepository implements CarrierInvoiceRepository
var _ invoicing.CarrierInvoiceRepository = (*GormCarrierInvoiceRepository)(nil)
