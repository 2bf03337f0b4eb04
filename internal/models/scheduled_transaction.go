package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// ScheduledTransaction is a recurrence rule plus the template of the
// transaction it generates. NextRunDate is the occurrence still owed.
type ScheduledTransaction struct {
	ID          uuid.UUID       `json:"id"`
	WalletID    uuid.UUID       `json:"wallet_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	NextRunDate time.Time       `json:"next_run_date"`
	DayOfMonth  *int            `json:"day_of_month"` // 1-31, MONTHLY only
	DayOfWeek   *int            `json:"day_of_week"`  // 0-6 (Sunday = 0), WEEKLY only
	CreatedAt   time.Time       `json:"created_at"`
}

// Occurrence builds the ledger entry for the current NextRunDate.
// The entry is a snapshot and keeps no reference to the schedule.
func (s *ScheduledTransaction) Occurrence() *Transaction {
	return &Transaction{
		ID:       uuid.New(),
		WalletID: s.WalletID,
		UserID:   s.UserID,
		Title:    s.Title,
		Amount:   s.Amount,
		Category: s.Category,
		Type:     s.Type,
		Date:     s.NextRunDate,
	}
}
