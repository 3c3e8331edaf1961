package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newStoreWithMock(t *testing.T) (*GormMealStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return NewGormMealStore(gdb), mock
}

func TestStoreRejectsMissingUser(t *testing.T) {
	store, _ := newStoreWithMock(t)

	_, err := store.List(0)
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.ErrorIs(t, store.Delete(0, "m1"), ErrNotAuthenticated)
}

func TestDeleteRefusesForeignMeal(t *testing.T) {
	store, mock := newStoreWithMock(t)

	// the meal does not belong to this user: the owner lookup misses and no
	// meal_items statement may follow
	mock.ExpectQuery(`SELECT \* FROM "meals" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := store.Delete(2, "m1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
