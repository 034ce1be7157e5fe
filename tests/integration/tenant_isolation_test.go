package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/persistence"
)

// Every tenant-scoped query must carry the tenant id; these tests verify that
// rows written by one tenant are invisible and immutable to another.

func TestTenantIsolation_Rates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	repo := persistence.NewGormRateRepository(tdb.DB)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()

	rate, err := tariff.NewRate(tenantA, "Tenant A rate", "ISO-RATE-A", tariff.RateTerm{
		TransportMode: tariff.TransportModeRoad,
		RateType:      tariff.RateTypePerKg,
		BaseValue:     decimal.NewFromFloat(0.5),
		Currency:      "EUR",
		EffectiveDate: time.Now().AddDate(0, -1, 0),
		Priority:      5,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rate))

	t.Run("read is scoped", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantB, rate.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDForTenant(ctx, tenantA, rate.ID)
		require.NoError(t, err)
		assert.Equal(t, "ISO-RATE-A", found.Code)
	})

	t.Run("list is scoped", func(t *testing.T) {
		rates, total, err := repo.FindAllForTenant(ctx, tenantB, tariff.RateFilter{
			Search: "ISO-RATE-A", Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, rates)
	})

	t.Run("active lookup is scoped", func(t *testing.T) {
		active, err := repo.FindActiveForTenant(ctx, tenantB, time.Now())
		require.NoError(t, err)
		for _, r := range active {
			assert.NotEqual(t, rate.ID, r.ID)
		}
	})

	t.Run("delete is scoped", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, tenantB, rate.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		// Still present for the owner
		_, err = repo.FindByIDForTenant(ctx, tenantA, rate.ID)
		assert.NoError(t, err)
	})

	t.Run("code uniqueness is scoped", func(t *testing.T) {
		// Tenant B can register the same code independently
		other, err := tariff.NewRate(tenantB, "Tenant B rate", "ISO-RATE-A", rate.Term)
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, other))
	})
}

func TestTenantIsolation_CarrierInvoices(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	repo := persistence.NewGormCarrierInvoiceRepository(tdb.DB)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	carrierID := uuid.New()

	inv, err := invoicing.NewCarrierInvoice(tenantA, "ISO-INV-001", carrierID, "Transports Durand", time.Now(), "EUR")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	t.Run("read is scoped", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantB, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("existence check is scoped", func(t *testing.T) {
		exists, err := repo.ExistsByInvoiceNumber(ctx, tenantA, carrierID, "ISO-INV-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByInvoiceNumber(ctx, tenantB, carrierID, "ISO-INV-001")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("pending review is scoped", func(t *testing.T) {
		pending, err := repo.FindPendingReview(ctx, tenantB)
		require.NoError(t, err)
		for _, p := range pending {
			assert.NotEqual(t, inv.ID, p.ID)
		}
	})

	t.Run("locked write is scoped", func(t *testing.T) {
		stolen := *inv
		stolen.TenantID = tenantB
		stolen.IncrementVersion()
		err := repo.SaveWithLock(ctx, &stolen)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)
	})
}
