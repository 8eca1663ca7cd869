package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-agent/domain"
)

func sampleRecord(createdAt time.Time) domain.CalculationRecord {
	return domain.NewCalculationRecord(
		domain.LoanInput{LoanAmount: 300000, DownPayment: 60000, AnnualRatePercent: 7.12, TermYears: 30},
		domain.LoanResult{MonthlyPayment: 1616.11, TotalPayment: 581801.25, TotalInterest: 341801.25},
		createdAt,
	)
}

func TestCalculationRepositoryMemory_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCalculationRepositoryMemory(0)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, sampleRecord(base.Add(time.Duration(i)*time.Minute))))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, base.Add(2*time.Minute), recent[0].CreatedAt)
	assert.Equal(t, base.Add(time.Minute), recent[1].CreatedAt)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCalculationRepositoryMemory_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	repo := NewCalculationRepositoryMemory(3)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Save(ctx, sampleRecord(base.Add(time.Duration(i)*time.Minute))))
	}

	assert.Equal(t, 3, repo.Len())
	recent, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, base.Add(9*time.Minute), recent[0].CreatedAt)
	assert.Equal(t, base.Add(8*time.Minute), recent[1].CreatedAt)
	assert.Equal(t, base.Add(7*time.Minute), recent[2].CreatedAt)
}

func TestSQLCalculationRepository_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS calculations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_calculations_created`).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSQLCalculationRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCalculationRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := sampleRecord(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	mock.ExpectExec(`INSERT INTO calculations (.+) VALUES (.+)`).
		WithArgs(
			rec.ID.String(), rec.CreatedAt.UnixNano(),
			rec.Input.LoanAmount, rec.Input.DownPayment, rec.Input.AnnualRatePercent, rec.Input.TermYears,
			rec.Result.MonthlyPayment, rec.Result.TotalPayment, rec.Result.TotalInterest,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO calculations (.+) VALUES (.+)`).
		WillReturnError(errors.New("disk full"))

	repo := NewSQLCalculationRepository(db)
	require.NoError(t, repo.Save(context.Background(), rec))

	err = repo.Save(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCalculationRepository_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "loan_amount", "down_payment", "annual_rate_percent",
		"term_years", "monthly_payment", "total_payment", "total_interest",
	}).AddRow(id.String(), created.UnixNano(), 300000.0, 60000.0, 7.12, 30, 1616.11, 581801.25, 341801.25)

	mock.ExpectQuery(`SELECT (.+) FROM calculations ORDER BY created_at DESC LIMIT \?`).
		WithArgs(10).
		WillReturnRows(rows)

	repo := NewSQLCalculationRepository(db)
	recent, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, id, recent[0].ID)
	assert.Equal(t, created, recent[0].CreatedAt)
	assert.Equal(t, 30, recent[0].Input.TermYears)
	assert.InDelta(t, 1616.11, recent[0].Result.MonthlyPayment, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCalculationRepository_RecentBadID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "loan_amount", "down_payment", "annual_rate_percent",
		"term_years", "monthly_payment", "total_payment", "total_interest",
	}).AddRow("not-a-uuid", int64(0), 1.0, 0.0, 1.0, 1, 1.0, 1.0, 0.0)
	mock.ExpectQuery(`SELECT (.+) FROM calculations`).WillReturnRows(rows)

	_, err = NewSQLCalculationRepository(db).Recent(context.Background(), 5)
	assert.Error(t, err)
}

func TestOpenSQLiteCalculationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenSQLiteCalculationRepository(ctx, t.TempDir()+"/calc.db")
	require.NoError(t, err)
	defer repo.Close()

	rec := sampleRecord(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, rec))

	recent, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, rec.ID, recent[0].ID)
	assert.Equal(t, rec.Input, recent[0].Input)
}
