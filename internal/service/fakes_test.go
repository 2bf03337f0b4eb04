package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
)

type fakeWallets struct {
	mu      sync.Mutex
	wallets []*models.Wallet
}

func (f *fakeWallets) Create(_ context.Context, w *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = uuid.New()
	f.wallets = append(f.wallets, w)
	return nil
}

func (f *fakeWallets) GetByID(_ context.Context, id uuid.UUID) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeWallets) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Wallet
	for _, w := range f.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWallets) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.wallets {
		if w.ID == id {
			f.wallets = append(f.wallets[:i], f.wallets[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeTransactions struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

func (f *fakeTransactions) Create(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx.ID = uuid.New()
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.transactions {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeTransactions) byWallet(walletID uuid.UUID) []*models.Transaction {
	var out []*models.Transaction
	for _, tx := range f.transactions {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeTransactions) ListByWallet(_ context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.byWallet(walletID)
	if offset >= len(all) {
		return []*models.Transaction{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeTransactions) CountByWallet(_ context.Context, walletID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byWallet(walletID)), nil
}

func (f *fakeTransactions) Update(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.transactions {
		if existing.ID == tx.ID {
			cp := *tx
			f.transactions[i] = &cp
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeTransactions) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, tx := range f.transactions {
		if tx.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeTransactions) TotalByType(_ context.Context, walletID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, tx := range f.byWallet(walletID) {
		if tx.Type == txType {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (f *fakeTransactions) SummaryByCategory(_ context.Context, walletID uuid.UUID, txType models.TransactionType) ([]models.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, tx := range f.byWallet(walletID) {
		if tx.Type == txType {
			sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
		}
	}
	out := []models.CategoryTotal{}
	for name, value := range sums {
		out = append(out, models.CategoryTotal{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	return out, nil
}

type fakeSchedules struct {
	mu        sync.Mutex
	schedules []*models.ScheduledTransaction
}

func (f *fakeSchedules) Create(_ context.Context, s *models.ScheduledTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	f.schedules = append(f.schedules, s)
	return nil
}

func (f *fakeSchedules) GetByID(_ context.Context, id uuid.UUID) (*models.ScheduledTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeSchedules) ListByWallet(_ context.Context, walletID uuid.UUID) ([]*models.ScheduledTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ScheduledTransaction
	for _, s := range f.schedules {
		if s.WalletID == walletID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextRunDate.Before(out[j].NextRunDate) })
	return out, nil
}

func (f *fakeSchedules) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.schedules {
		if s.ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}
