package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

type ScheduleInput struct {
	Entry
	Frequency  models.Frequency
	StartDate  time.Time
	DayOfMonth *int
	DayOfWeek  *int
}

func (in ScheduleInput) validate() error {
	if err := in.Entry.validate(); err != nil {
		return err
	}
	if !in.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", models.ErrInvalidInput, in.Frequency)
	}
	if err := validDate(in.StartDate, "start date"); err != nil {
		return err
	}
	if in.DayOfMonth != nil && (*in.DayOfMonth < 1 || *in.DayOfMonth > 31) {
		return fmt.Errorf("%w: day of month %d out of range", models.ErrInvalidInput, *in.DayOfMonth)
	}
	if in.DayOfWeek != nil && (*in.DayOfWeek < 0 || *in.DayOfWeek > 6) {
		return fmt.Errorf("%w: day of week %d out of range", models.ErrInvalidInput, *in.DayOfWeek)
	}
	return nil
}

type ScheduleService struct {
	wallets   WalletStore
	schedules ScheduleStore
}

func NewScheduleService(wallets WalletStore, schedules ScheduleStore) *ScheduleService {
	return &ScheduleService{wallets: wallets, schedules: schedules}
}

// Create stores a new schedule. Its first run is the start date itself.
func (s *ScheduleService) Create(ctx context.Context, userID, walletID uuid.UUID, in ScheduleInput) (*models.ScheduledTransaction, error) {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	sched := &models.ScheduledTransaction{
		WalletID:    walletID,
		UserID:      userID,
		Title:       in.Title,
		Amount:      in.Amount,
		Category:    in.Category,
		Type:        in.Type,
		Frequency:   in.Frequency,
		StartDate:   in.StartDate,
		NextRunDate: in.StartDate,
		DayOfMonth:  in.DayOfMonth,
		DayOfWeek:   in.DayOfWeek,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return sched, nil
}

// ListByWallet returns the wallet's schedules, soonest first.
func (s *ScheduleService) ListByWallet(ctx context.Context, userID, walletID uuid.UUID) ([]*models.ScheduledTransaction, error) {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// Delete removes a schedule. Transactions it already produced are kept.
func (s *ScheduleService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sched, err := s.schedules.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("schedule %s: %w", id, models.ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	if sched.UserID != userID {
		return fmt.Errorf("schedule %s: %w", id, models.ErrForbidden)
	}

	if err := s.schedules.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}
