package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoCatalog_SkipsWhenCatalogExists(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bus_operators`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	seeded, err := SeedDemoCatalog(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoCatalog_InsertsCatalog(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bus_operators`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()

	nextID := int64(1)
	idRow := func() *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id"}).AddRow(nextID)
		nextID++
		return rows
	}

	for range demoOperators {
		mock.ExpectQuery(`INSERT INTO bus_operators`).WillReturnRows(idRow())
	}
	for range demoBuses {
		mock.ExpectQuery(`INSERT INTO buses`).WillReturnRows(idRow())
	}
	for range demoRoutes {
		mock.ExpectQuery(`INSERT INTO routes`).WillReturnRows(idRow())
	}
	for _, s := range demoSchedules {
		mock.ExpectQuery(`INSERT INTO bus_schedules`).WillReturnRows(idRow())
		for range s.boarding {
			mock.ExpectExec(`INSERT INTO boarding_points`).WillReturnResult(sqlmock.NewResult(0, 1))
		}
		for range s.dropping {
			mock.ExpectExec(`INSERT INTO dropping_points`).WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	seeded, err := SeedDemoCatalog(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoCatalog_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bus_operators`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bus_operators`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	seeded, err := SeedDemoCatalog(context.Background(), db)
	assert.Error(t, err)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	db, mock := newMockDB(t)

	for range schema {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnError(assert.AnError)

	err := RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migration 1")
}
