package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

type WalletService struct {
	wallets      WalletStore
	transactions TransactionStore
}

func NewWalletService(wallets WalletStore, transactions TransactionStore) *WalletService {
	return &WalletService{wallets: wallets, transactions: transactions}
}

func (s *WalletService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: wallet name is required", models.ErrInvalidInput)
	}

	w := &models.Wallet{UserID: userID, Name: name}
	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}

// List returns the user's wallets, oldest first.
func (s *WalletService) List(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	wallets, err := s.wallets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// Delete removes a wallet together with its transactions and schedules.
func (s *WalletService) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return err
	}
	if err := s.wallets.Delete(ctx, walletID); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return nil
}

func (s *WalletService) Summary(ctx context.Context, userID, walletID uuid.UUID) (*models.WalletSummary, error) {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return nil, err
	}

	income, err := s.transactions.TotalByType(ctx, walletID, models.TransactionTypeIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to total income: %w", err)
	}
	expense, err := s.transactions.TotalByType(ctx, walletID, models.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	expensesByCategory, err := s.transactions.SummaryByCategory(ctx, walletID, models.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses: %w", err)
	}
	incomesByCategory, err := s.transactions.SummaryByCategory(ctx, walletID, models.TransactionTypeIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to group income: %w", err)
	}

	return &models.WalletSummary{
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            income.Sub(expense),
		ExpensesByCategory: expensesByCategory,
		IncomesByCategory:  incomesByCategory,
	}, nil
}
