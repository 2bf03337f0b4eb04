package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/liviogabriel1/FinanTech-Dash/internal/database"
	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

type WalletRepository struct {
	db *database.DB
}

func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, w *models.Wallet) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO wallets (id, user_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
		w.ID, w.UserID, w.Name,
	).Scan(&w.CreatedAt)
}

func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	w := &models.Wallet{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM wallets WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

func (r *WalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at FROM wallets WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := []*models.Wallet{}
	for rows.Next() {
		w := &models.Wallet{}
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// Delete removes the wallet. Its transactions and schedules go with it.
func (r *WalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
