// Package service implements the ledger operations around wallets,
// transactions and schedules, including ownership checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

type WalletStore interface {
	Create(ctx context.Context, w *models.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
	CountByWallet(ctx context.Context, walletID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	TotalByType(ctx context.Context, walletID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error)
	SummaryByCategory(ctx context.Context, walletID uuid.UUID, txType models.TransactionType) ([]models.CategoryTotal, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, s *models.ScheduledTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduledTransaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*models.ScheduledTransaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ownedWallet loads a wallet and checks it belongs to userID. A missing
// wallet is reported as models.ErrForbidden, the same as a foreign one.
func ownedWallet(ctx context.Context, wallets WalletStore, userID, walletID uuid.UUID) (*models.Wallet, error) {
	w, err := wallets.GetByID(ctx, walletID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("wallet %s: %w", walletID, models.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("wallet %s: %w", walletID, models.ErrForbidden)
	}
	return w, nil
}

// Entry holds the user-supplied fields shared by transactions and schedules.
type Entry struct {
	Title    string
	Amount   decimal.Decimal
	Category string
	Type     models.TransactionType
}

func (e Entry) validate() error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", models.ErrInvalidInput, e.Type)
	}
	return nil
}

func validDate(t time.Time, field string) error {
	if t.IsZero() {
		return fmt.Errorf("%w: %s is required", models.ErrInvalidInput, field)
	}
	return nil
}
