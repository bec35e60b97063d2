package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windpermit/internal/models"
)

func testPermit(number string, status string, at time.Time) *models.Permit {
	return &models.Permit{Number: number, Status: status, CreatedAt: at, UpdatedAt: at}
}

func TestPermitRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()

	p := testPermit("2024-CBE-X1-101", models.StatusPending, at)
	snap := &models.PermitSnapshot{
		Number:   "2024-CBE-X1-101",
		Sequence: 101,
		Draft: models.PermitDraft{
			Form:         models.FormData{Name: "J. Smith", Site: "CBE", Model: "X1"},
			PPEChecklist: map[string]bool{"Helmet": true},
			Engineers:    []models.Engineer{{Name: "A", Email: "a@example.com", Verified: true}},
		},
		CreatedAt: at,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO permits`).
		WithArgs(p.Number, p.Status, p.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO permit_snapshots`).
		WithArgs(snap.Number, snap.Sequence, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), snap.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(p, snap))
	require.NoError(t, mock.ExpectationsWereMet())
}

// вставка снимка провалилась — откатывается и строка наряда
func TestPermitRepository_CreateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()
	p := testPermit("2024-CBE-X1-101", models.StatusPending, at)
	snap := &models.PermitSnapshot{Number: p.Number, Sequence: 101, CreatedAt: at}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO permits`).
		WithArgs(p.Number, p.Status, p.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO permit_snapshots`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assert.Error(t, repo.Create(p, snap))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE permits SET status`).
		WithArgs(models.StatusAccepted, at, "2024-CBE-X1-101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateStatus("2024-CBE-X1-101", models.StatusAccepted, at)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(`UPDATE permits SET status`).
		WithArgs(models.StatusAccepted, at, "2024-X-Y-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.UpdateStatus("2024-X-Y-1", models.StatusAccepted, at)
	require.NoError(t, err)
	assert.False(t, ok, "missing permit reports no rows")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitRepository_GetByNumberMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)

	mock.ExpectQuery(`SELECT permit_no, status, created_at, updated_at`).
		WithArgs("2024-X-Y-1").
		WillReturnRows(sqlmock.NewRows([]string{"permit_no", "status", "created_at", "updated_at"}))

	p, err := repo.GetByNumber("2024-X-Y-1")
	require.NoError(t, err)
	assert.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitRepository_ListHistoryFirstPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()

	rows := sqlmock.NewRows([]string{"permit_no", "status", "created_at", "updated_at"}).
		AddRow("2024-CBE-X1-102", models.StatusClosed, at, at).
		AddRow("2024-CBE-X1-101", models.StatusRejected, at, at)
	mock.ExpectQuery(`SELECT permit_no, status, created_at, updated_at`).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnRows(rows)

	permits, err := repo.ListHistory([]string{models.StatusClosed, models.StatusRejected}, 5, time.Time{}, "")
	require.NoError(t, err)
	require.Len(t, permits, 2)
	assert.Equal(t, "2024-CBE-X1-102", permits[0].Number)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitRepository_ListHistoryAfterCursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()

	mock.ExpectQuery(`SELECT permit_no, status, created_at, updated_at`).
		WithArgs(sqlmock.AnyArg(), at, "2024-CBE-X1-105", 5).
		WillReturnRows(sqlmock.NewRows([]string{"permit_no", "status", "created_at", "updated_at"}).
			AddRow("2024-CBE-X1-104", models.StatusClosed, at, at))

	permits, err := repo.ListHistory([]string{models.StatusClosed}, 5, at, "2024-CBE-X1-105")
	require.NoError(t, err)
	require.Len(t, permits, 1)
	assert.Equal(t, "2024-CBE-X1-104", permits[0].Number)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitRepository_GetSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPermitRepository(db)
	at := time.Now()

	rows := sqlmock.NewRows([]string{"permit_no", "sequence", "form", "ppe_checklist", "isolation_checklist", "engineers", "created_at"}).
		AddRow(
			"2024-CBE-X1-101", 101,
			[]byte(`{"name":"J. Smith","site":"CBE","model":"X1"}`),
			[]byte(`{"Helmet":true}`),
			[]byte(`{}`),
			[]byte(`[{"name":"A","email":"a@example.com","verified":true}]`),
			at,
		)
	mock.ExpectQuery(`SELECT permit_no, sequence, form`).
		WithArgs("2024-CBE-X1-101").
		WillReturnRows(rows)

	snap, err := repo.GetSnapshot("2024-CBE-X1-101")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 101, snap.Sequence)
	assert.Equal(t, "J. Smith", snap.Draft.Form.Name)
	assert.True(t, snap.Draft.PPEChecklist["Helmet"])
	require.Len(t, snap.Draft.Engineers, 1)
	assert.True(t, snap.Draft.Engineers[0].Verified)
	require.NoError(t, mock.ExpectationsWereMet())
}
