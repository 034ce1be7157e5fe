package fleet

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/fleet"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateVehicleRequest represents a request to register a vehicle
type CreateVehicleRequest struct {
	RegistrationNumber string          `json:"registration_number" binding:"required"`
	Type               string          `json:"type" binding:"required"`
	MaxPayloadKg       decimal.Decimal `json:"max_payload_kg"`
	MaxVolumeM3        decimal.Decimal `json:"max_volume_m3"`
	CarrierID          *uuid.UUID      `json:"carrier_id"`
	HomeSiteID         *uuid.UUID      `json:"home_site_id"`
}

// CreateSiteRequest represents a request to register a site
type CreateSiteRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Country    string `json:"country" binding:"required,len=2"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Zone       string `json:"zone"`
}

// FleetService handles vehicle and site reference data
type FleetService struct {
	vehicleRepo fleet.VehicleRepository
	siteRepo    fleet.SiteRepository
}

// NewFleetService creates a new FleetService
func NewFleetService(vehicleRepo fleet.VehicleRepository, siteRepo fleet.SiteRepository) *FleetService {
	return &FleetService{
		vehicleRepo: vehicleRepo,
		siteRepo:    siteRepo,
	}
}

// CreateVehicle registers a vehicle
func (s *FleetService) CreateVehicle(ctx context.Context, tenantID uuid.UUID, req CreateVehicleRequest) (*fleet.Vehicle, error) {
	vehicle, err := fleet.NewVehicle(tenantID, req.RegistrationNumber, fleet.VehicleType(req.Type), req.MaxPayloadKg, req.MaxVolumeM3)
	if err != nil {
		return nil, err
	}

	if req.CarrierID != nil {
		if err := vehicle.AssignCarrier(*req.CarrierID); err != nil {
			return nil, err
		}
	}
	if req.HomeSiteID != nil {
		if err := vehicle.AssignHomeSite(*req.HomeSiteID); err != nil {
			return nil, err
		}
	}

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID
func (s *FleetService) GetVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) (*fleet.Vehicle, error) {
	return s.vehicleRepo.FindByIDForTenant(ctx, tenantID, vehicleID)
}

// ListVehicles lists vehicles with filtering and pagination
func (s *FleetService) ListVehicles(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Vehicle, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return s.vehicleRepo.FindAllForTenant(ctx, tenantID, filter)
}

// SetVehicleStatus changes a vehicle's operational status
func (s *FleetService) SetVehicleStatus(ctx context.Context, tenantID, vehicleID uuid.UUID, status fleet.VehicleStatus) error {
	vehicle, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, vehicleID)
	if err != nil {
		return err
	}

	if err := vehicle.SetStatus(status); err != nil {
		return err
	}
	return s.vehicleRepo.Save(ctx, vehicle)
}

// RetireVehicle permanently removes a vehicle from operations
func (s *FleetService) RetireVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) error {
	vehicle, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, vehicleID)
	if err != nil {
		return err
	}

	if err := vehicle.Retire(); err != nil {
		return err
	}
	return s.vehicleRepo.Save(ctx, vehicle)
}

// CreateSite registers a site
func (s *FleetService) CreateSite(ctx context.Context, tenantID uuid.UUID, req CreateSiteRequest) (*fleet.Site, error) {
	site, err := fleet.NewSite(tenantID, req.Code, req.Name, fleet.SiteType(req.Type), req.Country)
	if err != nil {
		return nil, err
	}

	if req.Address != "" || req.City != "" || req.PostalCode != "" {
		site.SetAddress(req.Address, req.City, req.PostalCode)
	}
	if req.Zone != "" {
		site.SetZone(req.Zone)
	}

	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// GetSite retrieves a site by ID
func (s *FleetService) GetSite(ctx context.Context, tenantID, siteID uuid.UUID) (*fleet.Site, error) {
	return s.siteRepo.FindByIDForTenant(ctx, tenantID, siteID)
}

// ListSites lists sites with filtering and pagination
func (s *FleetService) ListSites(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Site, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return s.siteRepo.FindAllForTenant(ctx, tenantID, filter)
}

// DeactivateSite removes a site from planning
func (s *FleetService) DeactivateSite(ctx context.Context, tenantID, siteID uuid.UUID) error {
	site, err := s.siteRepo.FindByIDForTenant(ctx, tenantID, siteID)
	if err != nil {
		return err
	}

	site.Deactivate()
	return s.siteRepo.Save(ctx, site)
}
