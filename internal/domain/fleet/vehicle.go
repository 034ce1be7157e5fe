package fleet

import (
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusInTransit   VehicleStatus = "in_transit"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// IsValid checks if the status is a known value
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusInTransit, VehicleStatusMaintenance, VehicleStatusRetired:
		return true
	}
	return false
}

// VehicleType represents the type of vehicle
type VehicleType string

const (
	VehicleTypeTractor VehicleType = "tractor"
	VehicleTypeRigid   VehicleType = "rigid"
	VehicleTypeVan     VehicleType = "van"
	VehicleTypeTrailer VehicleType = "trailer"
)

// Vehicle represents a fleet vehicle
// It is the aggregate root for vehicle-related operations
type Vehicle struct {
	shared.TenantAggregateRoot
	RegistrationNumber string               `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicle_tenant_reg,priority:2"`
	Type               VehicleType          `gorm:"type:varchar(20);not null"`
	Status             VehicleStatus        `gorm:"type:varchar(20);not null;default:'available'"`
	TransportMode      tariff.TransportMode `gorm:"type:varchar(20);not null;default:'road'"`
	MaxPayloadKg       decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	MaxVolumeM3        decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	CarrierID          *uuid.UUID           `gorm:"type:uuid;index"` // Set for subcontracted vehicles
	HomeSiteID         *uuid.UUID           `gorm:"type:uuid;index"`
	Notes              string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle creates a new vehicle in available status
func NewVehicle(tenantID uuid.UUID, registrationNumber string, vehicleType VehicleType, maxPayloadKg, maxVolumeM3 decimal.Decimal) (*Vehicle, error) {
	registrationNumber = strings.ToUpper(strings.TrimSpace(registrationNumber))
	if registrationNumber == "" {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration number cannot be empty")
	}
	if len(registrationNumber) > 20 {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration number cannot exceed 20 characters")
	}
	switch vehicleType {
	case VehicleTypeTractor, VehicleTypeRigid, VehicleTypeVan, VehicleTypeTrailer:
	default:
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid vehicle type")
	}
	if maxPayloadKg.IsNegative() || maxVolumeM3.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}

	return &Vehicle{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RegistrationNumber:  registrationNumber,
		Type:                vehicleType,
		Status:              VehicleStatusAvailable,
		TransportMode:       tariff.TransportModeRoad,
		MaxPayloadKg:        maxPayloadKg,
		MaxVolumeM3:         maxVolumeM3,
	}, nil
}

// CanCarry reports whether the vehicle can take the given load
func (v *Vehicle) CanCarry(weightKg, volumeM3 decimal.Decimal) bool {
	if v.Status != VehicleStatusAvailable {
		return false
	}
	if v.MaxPayloadKg.IsPositive() && weightKg.GreaterThan(v.MaxPayloadKg) {
		return false
	}
	if v.MaxVolumeM3.IsPositive() && volumeM3.GreaterThan(v.MaxVolumeM3) {
		return false
	}
	return true
}

// SetStatus changes the operational status. Retired is terminal.
func (v *Vehicle) SetStatus(status VehicleStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid vehicle status")
	}
	if v.Status == VehicleStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Retired vehicles cannot change status")
	}

	v.Status = status
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// AssignCarrier marks the vehicle as operated by a subcontracted carrier
func (v *Vehicle) AssignCarrier(carrierID uuid.UUID) error {
	if carrierID == uuid.Nil {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier ID cannot be empty")
	}
	v.CarrierID = &carrierID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// AssignHomeSite sets the vehicle's home site
func (v *Vehicle) AssignHomeSite(siteID uuid.UUID) error {
	if siteID == uuid.Nil {
		return shared.NewDomainError("INVALID_SITE", "Site ID cannot be empty")
	}
	v.HomeSiteID = &siteID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Retire permanently removes the vehicle from operations
func (v *Vehicle) Retire() error {
	if v.Status == VehicleStatusRetired {
		return shared.NewDomainError("ALREADY_RETIRED", "Vehicle is already retired")
	}
	v.Status = VehicleStatusRetired
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}
