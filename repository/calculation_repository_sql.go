package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mortgage-agent/domain"
)

// SQLCalculationRepository persists the calculation log through database/sql.
// The statements target SQLite.
type SQLCalculationRepository struct {
	db *sql.DB
}

func NewSQLCalculationRepository(db *sql.DB) *SQLCalculationRepository {
	return &SQLCalculationRepository{db: db}
}

// OpenSQLiteCalculationRepository opens (or creates) the SQLite database at
// path and runs migrations.
func OpenSQLiteCalculationRepository(ctx context.Context, path string) (*SQLCalculationRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := NewSQLCalculationRepository(db)
	if err := r.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLCalculationRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id                  TEXT PRIMARY KEY,
			created_at          INTEGER NOT NULL,
			loan_amount         REAL,
			down_payment        REAL,
			annual_rate_percent REAL,
			term_years          INTEGER,
			monthly_payment     REAL,
			total_payment       REAL,
			total_interest      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLCalculationRepository) Save(ctx context.Context, record domain.CalculationRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calculations (id, created_at, loan_amount, down_payment, annual_rate_percent,
			term_years, monthly_payment, total_payment, total_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.CreatedAt.UnixNano(),
		record.Input.LoanAmount,
		record.Input.DownPayment,
		record.Input.AnnualRatePercent,
		record.Input.TermYears,
		record.Result.MonthlyPayment,
		record.Result.TotalPayment,
		record.Result.TotalInterest,
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *SQLCalculationRepository) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, loan_amount, down_payment, annual_rate_percent,
			term_years, monthly_payment, total_payment, total_interest
		FROM calculations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var out []domain.CalculationRecord
	for rows.Next() {
		var (
			rec       domain.CalculationRecord
			id        string
			createdAt int64
		)
		if err := rows.Scan(
			&id,
			&createdAt,
			&rec.Input.LoanAmount,
			&rec.Input.DownPayment,
			&rec.Input.AnnualRatePercent,
			&rec.Input.TermYears,
			&rec.Result.MonthlyPayment,
			&rec.Result.TotalPayment,
			&rec.Result.TotalInterest,
		); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse calculation id %q: %w", id, err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLCalculationRepository) Close() error {
	return r.db.Close()
}
