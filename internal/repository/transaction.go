package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liviogabriel1/FinanTech-Dash/internal/database"
	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

const transactionColumns = `id, wallet_id, user_id, title, amount, category, type, date, created_at`

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	return insertTransaction(ctx, r.db.Pool, tx)
}

func insertTransaction(ctx context.Context, q querier, tx *models.Transaction) error {
	return q.QueryRow(ctx,
		`INSERT INTO transactions (id, wallet_id, user_id, title, amount, category, type, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		tx.ID, tx.WalletID, tx.UserID, tx.Title, tx.Amount, tx.Category, tx.Type, tx.Date,
	).Scan(&tx.CreatedAt)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`,
		id,
	).Scan(&tx.ID, &tx.WalletID, &tx.UserID, &tx.Title, &tx.Amount, &tx.Category, &tx.Type, &tx.Date, &tx.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return tx, nil
}

// ListByWallet returns one page of a wallet's transactions, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE wallet_id = $1
		 ORDER BY date DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		walletID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) CountByWallet(ctx context.Context, walletID uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`,
		walletID,
	).Scan(&count)
	return count, err
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transactions SET title = $1, amount = $2, category = $3, type = $4, date = $5
		 WHERE id = $6`,
		tx.Title, tx.Amount, tx.Category, tx.Type, tx.Date, tx.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) TotalByType(ctx context.Context, walletID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE wallet_id = $1 AND type = $2`,
		walletID, txType,
	).Scan(&total)
	return total, err
}

// SummaryByCategory sums a wallet's amounts of one type per category,
// largest first.
func (r *TransactionRepository) SummaryByCategory(ctx context.Context, walletID uuid.UUID, txType models.TransactionType) ([]models.CategoryTotal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category, SUM(amount) AS total
		 FROM transactions
		 WHERE wallet_id = $1 AND type = $2
		 GROUP BY category
		 ORDER BY total DESC, category`,
		walletID, txType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Value); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		summary = append(summary, ct)
	}
	return summary, rows.Err()
}

func scanTransactions(rows rowScanner) ([]*models.Transaction, error) {
	transactions := []*models.Transaction{}
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.UserID, &tx.Title, &tx.Amount,
			&tx.Category, &tx.Type, &tx.Date, &tx.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
