package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func inventoryRows(quantity int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "code", "name", "category", "quantity", "min_quantity", "location", "supplier", "created_at", "updated_at"}).
		AddRow("inv-1", "REP-HYD-001", "Sello mecánico", "Repuestos", quantity, 5, "Bodega A", "Hidráulica Ltda", now, now)
}

func TestInventoryRepositoryAdjustQuantityApplied(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory_items SET quantity = quantity + $2, updated_at = $3 WHERE id = $1 AND quantity + $2 >= 0 RETURNING")).
		WithArgs("inv-1", -4, sqlmock.AnyArg()).
		WillReturnRows(inventoryRows(6))

	item, err := repo.AdjustQuantity(context.Background(), "inv-1", -4)
	require.NoError(t, err)
	require.Equal(t, 6, item.Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryAdjustQuantityGuardRejects(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	// The conditional update matches no row when the delta would go negative.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory_items SET quantity = quantity + $2")).
		WithArgs("inv-1", -50, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.AdjustQuantity(context.Background(), "inv-1", -50)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryCreateDuplicateCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	mock.ExpectExec("INSERT INTO inventory_items").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.InventoryItem{Code: "REP-HYD-001", Name: "Sello"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryListBelowMinimum(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE quantity < min_quantity ORDER BY quantity ASC")).
		WillReturnRows(inventoryRows(2))

	items, err := repo.ListBelowMinimum(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM inventory_items WHERE id = $1")).
		WithArgs("inv-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "inv-404")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepositoryStatistics(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewInventoryRepository(db)
	rows := sqlmock.NewRows([]string{"total_items", "total_quantity", "below_minimum"}).AddRow(4, 65, 1)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(rows)

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, stats.TotalItems)
	require.Equal(t, 65, stats.TotalQuantity)
	require.Equal(t, 1, stats.BelowMinimum)
	require.NoError(t, mock.ExpectationsWereMet())
}
