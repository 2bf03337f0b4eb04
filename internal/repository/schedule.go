package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/liviogabriel1/FinanTech-Dash/internal/database"
	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

const scheduleColumns = `id, wallet_id, user_id, title, amount, category, type, frequency,
	start_date, next_run_date, day_of_month, day_of_week, created_at`

type ScheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.ScheduledTransaction) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO scheduled_transactions (id, wallet_id, user_id, title, amount, category, type, frequency,
		 start_date, next_run_date, day_of_month, day_of_week)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		s.ID, s.WalletID, s.UserID, s.Title, s.Amount, s.Category, s.Type, s.Frequency,
		s.StartDate, s.NextRunDate, s.DayOfMonth, s.DayOfWeek,
	).Scan(&s.CreatedAt)
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduledTransaction, error) {
	s := &models.ScheduledTransaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM scheduled_transactions WHERE id = $1`,
		id,
	).Scan(scheduleFields(s)...)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *ScheduleRepository) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*models.ScheduledTransaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM scheduled_transactions WHERE wallet_id = $1
		 ORDER BY next_run_date ASC`,
		walletID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM scheduled_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FindDue returns every schedule whose next run date is at or before now,
// across all users and wallets.
func (r *ScheduleRepository) FindDue(ctx context.Context, now time.Time) ([]*models.ScheduledTransaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM scheduled_transactions WHERE next_run_date <= $1
		 ORDER BY next_run_date ASC, id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// Materialize writes the schedule's current occurrence and moves its next
// run date to next in a single transaction. The update only applies while
// next_run_date still holds the value that was read; otherwise, or when the
// schedule or its wallet has been deleted, nothing is written and
// models.ErrScheduleGone is returned.
func (r *ScheduleRepository) Materialize(ctx context.Context, s *models.ScheduledTransaction, next time.Time) (*models.Transaction, error) {
	occurrence := s.Occurrence()

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if err := insertTransaction(ctx, tx, occurrence); err != nil {
			if isForeignKeyViolation(err) {
				return models.ErrScheduleGone
			}
			return fmt.Errorf("failed to insert occurrence: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE scheduled_transactions SET next_run_date = $1
			 WHERE id = $2 AND next_run_date = $3`,
			next, s.ID, s.NextRunDate,
		)
		if err != nil {
			return fmt.Errorf("failed to advance next run date: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrScheduleGone
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.NextRunDate = next
	return occurrence, nil
}

func scheduleFields(s *models.ScheduledTransaction) []any {
	return []any{
		&s.ID, &s.WalletID, &s.UserID, &s.Title, &s.Amount, &s.Category, &s.Type, &s.Frequency,
		&s.StartDate, &s.NextRunDate, &s.DayOfMonth, &s.DayOfWeek, &s.CreatedAt,
	}
}

func scanSchedules(rows rowScanner) ([]*models.ScheduledTransaction, error) {
	schedules := []*models.ScheduledTransaction{}
	for rows.Next() {
		s := &models.ScheduledTransaction{}
		if err := rows.Scan(scheduleFields(s)...); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
