package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository_Next(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCounterRepository(db)

	mock.ExpectQuery(`INSERT INTO permit_counter`).
		WithArgs(FirstPermitNumber).
		WillReturnRows(sqlmock.NewRows([]string{"last_number"}).AddRow(100))

	n, err := repo.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FirstPermitNumber, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_NextIncrements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCounterRepository(db)

	for _, want := range []int{100, 101, 102} {
		mock.ExpectQuery(`INSERT INTO permit_counter`).
			WithArgs(FirstPermitNumber).
			WillReturnRows(sqlmock.NewRows([]string{"last_number"}).AddRow(want))

		n, err := repo.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_NextError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCounterRepository(db)

	mock.ExpectQuery(`INSERT INTO permit_counter`).
		WithArgs(FirstPermitNumber).
		WillReturnError(assert.AnError)

	_, err = repo.Next(context.Background())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
