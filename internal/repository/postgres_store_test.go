package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"petwelfare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresStore(db, zap.NewNop())
}

var emergencyRowColumns = []string{"id", "owner_id", "category", "solved", "created_at", "updated_at"}

// ============================================
// emergencies
// ============================================

func TestCreateEmergency_Success(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	e := &models.Emergency{
		ID: uuid.NewString(), OwnerID: "owner-1", Category: models.CategoryWalk,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO emergencies`).
		WithArgs(e.ID, "owner-1", "WALK", false, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Emergencies().CreateEmergency(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmergency_IntegrityViolation(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	e := &models.Emergency{ID: "dup", OwnerID: "owner-1", Category: models.CategoryBite, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO emergencies`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := store.Emergencies().CreateEmergency(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIntegrity))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmergency_OtherErrorIsNotIntegrity(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO emergencies`).WillReturnError(errors.New("connection reset"))

	err := store.Emergencies().CreateEmergency(context.Background(),
		&models.Emergency{ID: "x", OwnerID: "owner-1", Category: models.CategoryBite})
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrIntegrity))
}

func TestCreateEmergency_InvalidOwner(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	err := store.Emergencies().CreateEmergency(context.Background(), &models.Emergency{ID: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "owner_id is required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmergencies_WithFilters(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	since := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)
	category := models.CategoryVomiting
	solved := false
	created := since.Add(3 * time.Hour)

	rows := sqlmock.NewRows(emergencyRowColumns).
		AddRow("e-1", "owner-1", "VOMITING", false, created, created)

	mock.ExpectQuery(`SELECT (.+) FROM emergencies WHERE owner_id = \$1 AND category = \$2 AND created_at >= \$3 AND created_at <= \$4 AND solved = \$5 ORDER BY created_at DESC`).
		WithArgs("owner-1", "VOMITING", since, until, false).
		WillReturnRows(rows)

	list, err := store.Emergencies().ListEmergencies(context.Background(), "owner-1", models.EmergencyFilter{
		Category: &category, Since: &since, Until: &until, Solved: &solved,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.CategoryVomiting, list[0].Category)
	assert.Equal(t, "e-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByCategory(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	until := time.Now()
	since := until.AddDate(0, 0, -7)

	mock.ExpectQuery(`SELECT category, COUNT\(\*\)`).
		WithArgs("owner-1", since, until).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
			AddRow("POOP", 3).
			AddRow("ANXIETY", 1))

	counts, err := store.Emergencies().CountByCategory(context.Background(), "owner-1", since, until)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[models.CategoryPoop])
	assert.Equal(t, 1, counts[models.CategoryAnxiety])
	assert.Equal(t, 0, counts[models.CategoryDepression])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSolved_Success(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	created := time.Now().Add(-time.Hour)
	at := time.Now()

	mock.ExpectQuery(`UPDATE emergencies`).
		WithArgs("e-1", "owner-1", at).
		WillReturnRows(sqlmock.NewRows(emergencyRowColumns).
			AddRow("e-1", "owner-1", "BITE", true, created, at))

	e, err := store.Emergencies().MarkSolved(context.Background(), "owner-1", "e-1", at)
	require.NoError(t, err)
	assert.True(t, e.Solved)
	assert.Equal(t, at, e.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSolved_NotOwned(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectQuery(`UPDATE emergencies`).
		WithArgs("e-1", "owner-2", at).
		WillReturnError(sql.ErrNoRows)

	e, err := store.Emergencies().MarkSolved(context.Background(), "owner-2", "e-1", at)
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmergency_NotFound(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM emergencies WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("missing", "owner-1").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Emergencies().GetEmergency(context.Background(), "owner-1", "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// stress / activities / owners
// ============================================

func TestCreateStress_Success(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	s := &models.Stress{ID: "s-1", OwnerID: "owner-1", Category: models.StressWalk, Score: 30, CreatedAt: now}

	mock.ExpectExec(`INSERT INTO stress`).
		WithArgs("s-1", "owner-1", "WALK", 30, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Stress().CreateStress(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListStress_Range(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	since := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT id, owner_id, category, score, created_at`).
		WithArgs("owner-1", since, until).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "category", "score", "created_at"}).
			AddRow("s-1", "owner-1", "WALK", 30, since.Add(time.Hour)).
			AddRow("s-2", "owner-1", "POOP", 10, since.Add(2*time.Hour)))

	list, err := store.Stress().ListStress(context.Background(), "owner-1", &since, &until)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 40, models.SumScores(list))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActivity(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(`FROM walks`).
		WithArgs("owner-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "created_at"}).
			AddRow("w-1", "owner-1", from.Add(8*time.Hour)))

	a, err := store.Activities().FindActivity(context.Background(), "owner-1", models.ActivityWalk, from, to)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, models.ActivityWalk, a.Kind)

	mock.ExpectQuery(`FROM expenses`).
		WithArgs("owner-1", from, to).
		WillReturnError(sql.ErrNoRows)

	a, err = store.Activities().FindActivity(context.Background(), "owner-1", models.ActivityExpense, from, to)
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = store.Activities().FindActivity(context.Background(), "owner-1", models.ActivityKind("NAP"), from, to)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwners(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(`FROM owners WHERE id > \$1 ORDER BY id ASC LIMIT \$2`).
		WithArgs("", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "dog_name", "device_token", "timezone", "created_at"}).
			AddRow("owner-1", "a@example.com", "Bori", "tok-1", "Asia/Seoul", created))

	owners, err := store.Owners().ListOwners(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, "Bori", owners[0].DogName)
	assert.Equal(t, "tok-1", owners[0].DeviceToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// transactions
// ============================================

func TestInTx_Commit(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO emergencies`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO stress`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(tx Store) error {
		if err := tx.Emergencies().CreateEmergency(context.Background(),
			&models.Emergency{ID: "e-1", OwnerID: "owner-1", Category: models.CategoryPoop, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return tx.Stress().CreateStress(context.Background(),
			&models.Stress{ID: "s-1", OwnerID: "owner-1", Category: models.StressPoop, Score: 10, CreatedAt: now})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollbackOnError(t *testing.T) {
	db, mock, store := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO emergencies`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO stress`).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := store.InTx(context.Background(), func(tx Store) error {
		if err := tx.Emergencies().CreateEmergency(context.Background(),
			&models.Emergency{ID: "e-1", OwnerID: "owner-1", Category: models.CategoryPoop, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return tx.Stress().CreateStress(context.Background(),
			&models.Stress{ID: "s-1", OwnerID: "owner-1", Category: models.StressPoop, Score: 10, CreatedAt: now})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIntegrity))
	require.NoError(t, mock.ExpectationsWereMet())
}
