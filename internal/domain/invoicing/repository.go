package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CarrierInvoiceFilter defines filtering options for invoice queries
type CarrierInvoiceFilter struct {
	CarrierID        *uuid.UUID
	Status           *InvoiceStatus
	ValidationStatus *ValidationStatus
	FromDate         *time.Time
	ToDate           *time.Time
	Search           string
	Page             int
	PageSize         int
}

// CarrierInvoiceRepository defines the interface for carrier invoice persistence
type CarrierInvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CarrierInvoice, error)

	// FindByInvoiceNumber finds by carrier invoice number for a tenant
	FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*CarrierInvoice, error)

	// ExistsByInvoiceNumber checks if an invoice number is already registered
	// for a carrier
	ExistsByInvoiceNumber(ctx context.Context, tenantID, carrierID uuid.UUID, invoiceNumber string) (bool, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CarrierInvoiceFilter) ([]CarrierInvoice, int64, error)

	// FindPendingReview finds invoices awaiting review for a tenant
	FindPendingReview(ctx context.Context, tenantID uuid.UUID) ([]CarrierInvoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *CarrierInvoice) error

	// SaveWithLock saves with optimistic locking (version check).
	// Returns a CONCURRENCY_CONFLICT domain error when the stored version no
	// longer matches, so conflicting workflow actions never overwrite each
	// other silently.
	SaveWithLock(ctx context.Context, invoice *CarrierInvoice) error

	// DeleteForTenant deletes an invoice for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
