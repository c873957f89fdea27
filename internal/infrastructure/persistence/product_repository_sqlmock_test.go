package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/shared"
)

// The sqlite-backed tests cover behavior; these pin the exact SQL the
// stock adjustment issues against postgres, since a single conditional
// UPDATE is what makes concurrent checkouts safe.
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

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

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestAdjustStockSQL(t *testing.T) {
	t.Run("clamp floors at zero in one statement", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=CASE WHEN stock > \$1 THEN stock - \$2 ELSE 0 END,"updated_at"=\$3 WHERE id = \$4`).
			WithArgs(int64(3), int64(3), sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustStock(context.Background(), id, 3, true)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reject guards the decrement with the stock predicate", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1,"updated_at"=\$2 WHERE id = \$3 AND stock >= \$4`).
			WithArgs(int64(3), sqlmock.AnyArg(), id, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustStock(context.Background(), id, 3, false)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unmatched row falls back to existence check", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET`).
			WithArgs(int64(3), sqlmock.AnyArg(), id, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.AdjustStock(context.Background(), id, 3, false)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
