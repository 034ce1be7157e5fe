package tariff

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransportMode represents the mode of transport for a shipment
type TransportMode string

const (
	TransportModeRoad       TransportMode = "road"
	TransportModeRail       TransportMode = "rail"
	TransportModeSea        TransportMode = "sea"
	TransportModeAir        TransportMode = "air"
	TransportModeMultimodal TransportMode = "multimodal"
)

// IsValid checks if the transport mode is a known value
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportModeRoad, TransportModeRail, TransportModeSea, TransportModeAir, TransportModeMultimodal:
		return true
	}
	return false
}

// String returns the string representation of TransportMode
func (m TransportMode) String() string {
	return string(m)
}

// ShipmentContext carries the already-loaded shipment parameters every
// rating component matches and prices against. It is a plain value; the
// engine never mutates it.
type ShipmentContext struct {
	ShipmentDate       time.Time           `json:"shipment_date"`
	TransportMode      TransportMode       `json:"transport_mode"`
	ServiceLevel       string              `json:"service_level,omitempty"`
	OriginCountry      string              `json:"origin_country,omitempty"`
	DestinationCountry string              `json:"destination_country,omitempty"`
	OriginZone         string              `json:"origin_zone,omitempty"`
	DestinationZone    string              `json:"destination_zone,omitempty"`
	WeightKg           decimal.Decimal     `json:"weight_kg"`
	VolumeM3           decimal.Decimal     `json:"volume_m3"`
	DistanceKm         decimal.Decimal     `json:"distance_km"`
	PalletCount        decimal.Decimal     `json:"pallet_count"`
	ContainerCount     decimal.Decimal     `json:"container_count"`
	Hours              decimal.Decimal     `json:"hours"`
	DeclaredValue      decimal.Decimal     `json:"declared_value"`
	Currency           valueobject.Currency `json:"currency"`
	CustomerID         uuid.UUID           `json:"customer_id"`
	CarrierID          uuid.UUID           `json:"carrier_id"`
	MonthlyVolume      decimal.Decimal     `json:"monthly_volume"`
	AnnualVolume       decimal.Decimal     `json:"annual_volume"`

	// CurrentFuelPrice is the fuel index price supplied by the caller,
	// consumed by fuel-type surcharges.
	CurrentFuelPrice decimal.Decimal `json:"current_fuel_price"`

	// BaseAmount is the caller-supplied base for percentage rate types.
	BaseAmount decimal.Decimal `json:"base_amount"`

	// Now pins the evaluation clock used by pricing-rule day-of-week and
	// time-of-day conditions. Zero means time.Now() at evaluation.
	Now time.Time `json:"-"`
}

// EvaluationTime returns the clock used for rule day/time window checks.
// Pricing-rule time windows are checked against this clock, not the
// shipment's planned date (observed behavior, kept for compatibility).
func (c ShipmentContext) EvaluationTime() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// QuoteCurrency returns the currency quotes are expressed in, falling back
// to the system default when the context does not specify one.
func (c ShipmentContext) QuoteCurrency() valueobject.Currency {
	if c.Currency == "" {
		return valueobject.DefaultCurrency
	}
	return c.Currency
}
