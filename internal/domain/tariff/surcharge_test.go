package tariff

import (
	"testing"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSurcharge(t *testing.T) *Surcharge {
	t.Helper()
	s, err := NewSurcharge(uuid.New(), "Toll A4", SurchargeTypeToll,
		CalculationMethodFixedAmount, dec(25), valueobject.EUR,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

func TestNewSurcharge_Validation(t *testing.T) {
	effective := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewSurcharge(uuid.New(), "", SurchargeTypeToll, CalculationMethodFixedAmount, dec(1), valueobject.EUR, effective)
	assert.Error(t, err, "empty name")

	_, err = NewSurcharge(uuid.New(), "X", SurchargeType("parking"), CalculationMethodFixedAmount, dec(1), valueobject.EUR, effective)
	assert.Error(t, err, "unknown surcharge type")

	_, err = NewSurcharge(uuid.New(), "X", SurchargeTypeToll, CalculationMethod("per_mile"), dec(1), valueobject.EUR, effective)
	assert.Error(t, err, "unknown calculation method")

	_, err = NewSurcharge(uuid.New(), "X", SurchargeTypeFuel, CalculationMethodPercentage, dec(1), valueobject.EUR, effective)
	assert.Error(t, err, "fuel surcharge without threshold config")
}

func TestSurcharge_IsApplicable_Window(t *testing.T) {
	s := validSurcharge(t)
	expiry := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.ExpiryDate = &expiry

	sctx := baseContext()
	assert.True(t, s.IsApplicable(sctx))

	sctx.ShipmentDate = expiry
	assert.True(t, s.IsApplicable(sctx), "expiry is inclusive")

	sctx.ShipmentDate = expiry.Add(time.Hour)
	assert.False(t, s.IsApplicable(sctx))

	s.Deactivate()
	assert.False(t, s.IsApplicable(baseContext()))
}

func TestSurcharge_IsApplicable_DayAndTimeWindows(t *testing.T) {
	s := validSurcharge(t)
	s.DaysOfWeek = []time.Weekday{time.Saturday, time.Sunday}
	s.StartTime = "08:00"
	s.EndTime = "18:00"

	sctx := baseContext()
	// Saturday 10:00
	sctx.ShipmentDate = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	assert.True(t, s.IsApplicable(sctx))

	// Tuesday 10:00
	sctx.ShipmentDate = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	assert.False(t, s.IsApplicable(sctx))

	// Saturday 19:00, outside time window
	sctx.ShipmentDate = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	assert.False(t, s.IsApplicable(sctx))
}

func TestSurcharge_Compute_Percentage(t *testing.T) {
	s := validSurcharge(t)
	s.CalculationMethod = CalculationMethodPercentage
	s.Value = dec(12)

	amount := s.Compute(dec(1000), baseContext())
	assert.True(t, amount.Equal(dec(120)))
}

func TestSurcharge_Compute_PerUnit(t *testing.T) {
	s := validSurcharge(t)
	s.CalculationMethod = CalculationMethodPerKg
	s.Value = dec(0.1)

	sctx := baseContext() // 500 kg
	amount := s.Compute(dec(1000), sctx)
	assert.True(t, amount.Equal(dec(50)))
}

func TestSurcharge_Compute_FuelThreshold(t *testing.T) {
	s := validSurcharge(t)
	s.SurchargeType = SurchargeTypeFuel
	s.CalculationMethod = CalculationMethodPercentage
	s.FuelThreshold = decPtr(1.5)
	s.FuelAdjustmentFactor = decPtr(0.1)

	sctx := baseContext()

	// at the threshold: inactive
	sctx.CurrentFuelPrice = dec(1.5)
	assert.True(t, s.Compute(dec(1000), sctx).IsZero())

	// below the threshold: inactive
	sctx.CurrentFuelPrice = dec(1.2)
	assert.True(t, s.Compute(dec(1000), sctx).IsZero())

	// above: value becomes (2.0 - 1.5) * 0.1 = 0.05, applied as percentage
	sctx.CurrentFuelPrice = dec(2.0)
	amount := s.Compute(dec(1000), sctx)
	assert.True(t, amount.Equal(dec(0.5)), "got %s", amount)
}

func TestSurcharge_Compute_Clamp(t *testing.T) {
	s := validSurcharge(t)
	s.CalculationMethod = CalculationMethodPercentage
	s.Value = dec(1)
	s.MinAmount = decPtr(50)
	s.MaxAmount = decPtr(80)

	// 1% of 1000 = 10, raised to min 50
	assert.True(t, s.Compute(dec(1000), baseContext()).Equal(dec(50)))

	// 1% of 20000 = 200, capped at 80
	assert.True(t, s.Compute(dec(20000), baseContext()).Equal(dec(80)))
}

func TestSurcharge_Compute_TierSelection(t *testing.T) {
	s := validSurcharge(t)
	s.CalculationMethod = CalculationMethodPerKg
	s.Tiers = []RateTier{
		{MinQuantity: dec(0), MaxQuantity: decPtr(100), Rate: dec(0.5)},
		{MinQuantity: dec(100), Rate: dec(0.3)},
	}

	sctx := baseContext()
	sctx.WeightKg = dec(50)
	assert.True(t, s.Compute(dec(1000), sctx).Equal(dec(25)))

	sctx.WeightKg = dec(200)
	assert.True(t, s.Compute(dec(1000), sctx).Equal(dec(60)))
}

func TestSurcharge_Compute_Idempotent(t *testing.T) {
	s := validSurcharge(t)
	sctx := baseContext()
	first := s.Compute(dec(1000), sctx)
	second := s.Compute(dec(1000), sctx)
	assert.True(t, first.Equal(second))
}
