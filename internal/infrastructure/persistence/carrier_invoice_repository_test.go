package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCarrierInvoiceRepository creates a GormCarrierInvoiceRepository with a mocked SQL connection
func newMockCarrierInvoiceRepository(t *testing.T) (*GormCarrierInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCarrierInvoiceRepository(gormDB), mock, mockDB
}

func reviewedInvoice(t *testing.T, tenantID uuid.UUID) *invoicing.CarrierInvoice {
	t.Helper()

	invoice, err := invoicing.NewCarrierInvoice(
		tenantID,
		"INV-2026-0042",
		uuid.New(),
		"Transports Blanchet",
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		valueobject.EUR,
	)
	require.NoError(t, err)
	require.NoError(t, invoice.StartReview(uuid.New(), "routine check"))

	return invoice
}

func TestGormCarrierInvoiceRepository_ExistsByInvoiceNumber(t *testing.T) {
	t.Run("returns true when number already registered for carrier", func(t *testing.T) {
		repo, mock, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		carrierID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "carrier_invoices" WHERE tenant_id = \$1 AND carrier_id = \$2 AND invoice_number = \$3`).
			WithArgs(tenantID, carrierID, "INV-2026-0042").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByInvoiceNumber(context.Background(), tenantID, carrierID, "INV-2026-0042")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when number unknown", func(t *testing.T) {
		repo, mock, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		carrierID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "carrier_invoices" WHERE tenant_id = \$1 AND carrier_id = \$2 AND invoice_number = \$3`).
			WithArgs(tenantID, carrierID, "INV-2026-9999").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByInvoiceNumber(context.Background(), tenantID, carrierID, "INV-2026-9999")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCarrierInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row holding the previous version", func(t *testing.T) {
		repo, mock, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoice := reviewedInvoice(t, tenantID)

		mock.ExpectExec(`UPDATE "carrier_invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), invoice)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another operation won the race", func(t *testing.T) {
		repo, mock, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoice := reviewedInvoice(t, tenantID)

		mock.ExpectExec(`UPDATE "carrier_invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), invoice)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCarrierInvoiceRepository_DeleteForTenant(t *testing.T) {
	t.Run("returns error for non-existent invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "carrier_invoices" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), tenantID, invoiceID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCarrierInvoiceRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements CarrierInvoiceRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockCarrierInvoiceRepository(t)
		defer mockDB.Close()

		var _ invoicing.CarrierInvoiceRepository = repo
	})
}
