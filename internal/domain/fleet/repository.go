package fleet

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// VehicleRepository defines the interface for vehicle persistence
type VehicleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error)
	FindByRegistration(ctx context.Context, tenantID uuid.UUID, registrationNumber string) (*Vehicle, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Vehicle, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status VehicleStatus, filter shared.Filter) ([]Vehicle, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SiteRepository defines the interface for site persistence
type SiteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Site, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Site, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Site, error)
	FindByZone(ctx context.Context, tenantID uuid.UUID, zone string) ([]Site, error)
	Save(ctx context.Context, site *Site) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
