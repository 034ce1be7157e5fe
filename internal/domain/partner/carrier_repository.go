package partner

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// CarrierRepository defines the interface for carrier persistence
type CarrierRepository interface {
	// FindByIDForTenant finds a carrier by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Carrier, error)

	// FindByCode finds a carrier by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Carrier, error)

	// FindAllForTenant finds all carriers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Carrier, error)

	// FindByStatus finds carriers by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CarrierStatus, filter shared.Filter) ([]Carrier, error)

	// FindActive finds all active carriers for a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Carrier, error)

	// Save creates or updates a carrier
	Save(ctx context.Context, carrier *Carrier) error

	// DeleteForTenant deletes a carrier within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts carriers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a carrier with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
