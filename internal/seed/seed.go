// Package seed bootstraps a fresh install with a demo account and a few transactions.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/records"
)

const day = 24 * time.Hour

// Seeder writes demo data exactly once, on a store where every collection is empty.
type Seeder struct {
	store  *records.Store
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Seeder)

// WithClock overrides the time source used for seeded timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Seeder) { s.logger = l }
}

func New(store *records.Store, opts ...Option) *Seeder {
	s := &Seeder{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = applog.Or(s.logger).With(applog.FieldComponent, applog.ComponentSeeder)
	return s
}

// EnsureSeeded writes the demo account and transactions if, and only if, receipts,
// accounts and transactions are all empty. Dates are relative to the call time.
func (s *Seeder) EnsureSeeded(ctx context.Context) error {
	if !s.store.Empty(ctx) {
		return nil
	}

	now := s.now()
	account := DemoAccount(now)
	if err := s.store.Accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("seed account: %w", err)
	}
	txns := DemoTransactions(now)
	for _, t := range txns {
		if err := s.store.Transactions.Upsert(ctx, t); err != nil {
			return fmt.Errorf("seed transaction %s: %w", t.ID, err)
		}
	}

	s.logger.InfoContext(ctx, "Seeded demo data",
		"accounts", 1,
		"transactions", len(txns))
	return nil
}

// DemoAccount is the linked card shown on first run.
func DemoAccount(now time.Time) core.Account {
	return core.Account{
		ID:              "acc1",
		UserID:          core.DemoUserID,
		InstitutionName: "Chase Bank",
		AccountName:     "Chase Freedom",
		AccountType:     core.Credit,
		AccountMask:     "4242",
		Balance:         2850.50,
		IsActive:        true,
		LastSyncedAt:    now,
		CreatedAt:       now,
	}
}

// DemoTransactions returns three purchases dated one, two and three days before now.
func DemoTransactions(now time.Time) []core.Transaction {
	mk := func(id, merchant, category string, amount float64, daysAgo int) core.Transaction {
		return core.Transaction{
			ID:           id,
			AccountID:    "acc1",
			UserID:       core.DemoUserID,
			Amount:       amount,
			Date:         now.Add(-time.Duration(daysAgo) * day),
			MerchantName: merchant,
			Category:     category,
			CreatedAt:    now,
		}
	}
	return []core.Transaction{
		mk("txn1", "Whole Foods Market", "food", 45.67, 1),
		mk("txn2", "Starbucks", "food", 15.50, 2),
		mk("txn3", "Shell Gas Station", "transportation", 89.99, 3),
	}
}
