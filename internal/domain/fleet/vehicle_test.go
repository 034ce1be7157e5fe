package fleet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	v, err := NewVehicle(uuid.New(), " ab-123-cd ", VehicleTypeTractor,
		decimal.NewFromInt(24000), decimal.NewFromInt(90))
	require.NoError(t, err)
	assert.Equal(t, "AB-123-CD", v.RegistrationNumber)
	assert.Equal(t, VehicleStatusAvailable, v.Status)

	_, err = NewVehicle(uuid.New(), "", VehicleTypeTractor, decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = NewVehicle(uuid.New(), "AB-1", VehicleType("bike"), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestVehicle_CanCarry(t *testing.T) {
	v, err := NewVehicle(uuid.New(), "AB-123-CD", VehicleTypeRigid,
		decimal.NewFromInt(12000), decimal.NewFromInt(45))
	require.NoError(t, err)

	assert.True(t, v.CanCarry(decimal.NewFromInt(12000), decimal.NewFromInt(45)), "capacity bounds inclusive")
	assert.False(t, v.CanCarry(decimal.NewFromInt(12001), decimal.NewFromInt(10)))
	assert.False(t, v.CanCarry(decimal.NewFromInt(100), decimal.NewFromInt(46)))

	require.NoError(t, v.SetStatus(VehicleStatusMaintenance))
	assert.False(t, v.CanCarry(decimal.NewFromInt(100), decimal.NewFromInt(1)), "only available vehicles carry")
}

func TestVehicle_RetireIsTerminal(t *testing.T) {
	v, err := NewVehicle(uuid.New(), "AB-123-CD", VehicleTypeVan, decimal.NewFromInt(1200), decimal.NewFromInt(12))
	require.NoError(t, err)

	require.NoError(t, v.Retire())
	assert.Error(t, v.Retire())
	assert.Error(t, v.SetStatus(VehicleStatusAvailable))
}

func TestNewSite(t *testing.T) {
	s, err := NewSite(uuid.New(), "lyn-01", "Lyon Depot", SiteTypeDepot, "fr")
	require.NoError(t, err)
	assert.Equal(t, "LYN-01", s.Code)
	assert.Equal(t, "FR", s.Country)
	assert.True(t, s.Active)

	_, err = NewSite(uuid.New(), "X", "Name", SiteTypeDepot, "FRA")
	assert.Error(t, err, "country must be alpha-2")

	_, err = NewSite(uuid.New(), "X", "Name", SiteType("port"), "FR")
	assert.Error(t, err)
}

func TestSite_Zone(t *testing.T) {
	s, err := NewSite(uuid.New(), "LYN-01", "Lyon Depot", SiteTypeDepot, "FR")
	require.NoError(t, err)

	s.SetZone("FR-SE")
	assert.Equal(t, "FR-SE", s.Zone)
	assert.Equal(t, 2, s.Version)
}
