package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 5
)

type TransactionInput struct {
	Entry
	Date time.Time
}

func (in TransactionInput) validate() error {
	if err := in.Entry.validate(); err != nil {
		return err
	}
	return validDate(in.Date, "date")
}

type TransactionService struct {
	wallets      WalletStore
	transactions TransactionStore
}

func NewTransactionService(wallets WalletStore, transactions TransactionStore) *TransactionService {
	return &TransactionService{wallets: wallets, transactions: transactions}
}

func (s *TransactionService) Create(ctx context.Context, userID, walletID uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		WalletID: walletID,
		UserID:   userID,
		Title:    in.Title,
		Amount:   in.Amount,
		Category: in.Category,
		Type:     in.Type,
		Date:     in.Date,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// ListByWallet returns one page of the wallet's transactions, newest first.
// Non-positive page or limit fall back to 1 and 5.
func (s *TransactionService) ListByWallet(ctx context.Context, userID, walletID uuid.UUID, page, limit int) (*models.TransactionPage, error) {
	if _, err := ownedWallet(ctx, s.wallets, userID, walletID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	transactions, err := s.transactions.ListByWallet(ctx, walletID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	total, err := s.transactions.CountByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return &models.TransactionPage{
		Transactions: transactions,
		TotalPages:   (total + limit - 1) / limit,
		CurrentPage:  page,
	}, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx.Title = in.Title
	tx.Amount = in.Amount
	tx.Category = in.Category
	tx.Type = in.Type
	tx.Date = in.Date
	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) owned(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx.UserID != userID {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrForbidden)
	}
	return tx, nil
}
