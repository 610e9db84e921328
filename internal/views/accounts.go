package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/records"
)

var (
	ErrLinkingUnavailable = errors.New("bank account linking is not available")
	ErrAccountNotFound    = errors.New("account not found")
)

const DefaultSyncDelay = time.Second

type Accounts struct {
	store     *records.Store
	syncDelay time.Duration
	logger    *slog.Logger

	list []core.Account
}

func NewAccounts(store *records.Store, syncDelay time.Duration, logger *slog.Logger) *Accounts {
	if syncDelay < 0 {
		syncDelay = DefaultSyncDelay
	}
	return &Accounts{
		store:     store,
		syncDelay: syncDelay,
		logger:    applog.Or(logger).With(applog.FieldComponent, applog.ComponentAccounts),
	}
}

func (a *Accounts) Load(ctx context.Context) []core.Account {
	a.list = a.store.Accounts.List(ctx)
	return a.list
}

func (a *Accounts) List() []core.Account { return a.list }

// TotalBalance sums the balances of active accounts from the last load.
func (a *Accounts) TotalBalance() float64 {
	var total float64
	for _, acc := range a.list {
		if acc.IsActive {
			total += acc.Balance
		}
	}
	return total
}

// Add would start bank linking; there is no provider to link with.
func (a *Accounts) Add(ctx context.Context) error {
	a.logger.InfoContext(ctx, "Account linking requested")
	return ErrLinkingUnavailable
}

// Sync simulates a refresh against the bank. Stored data is left untouched.
func (a *Accounts) Sync(ctx context.Context, id string) error {
	if _, ok := a.find(ctx, id); !ok {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, id)
	}

	if a.syncDelay > 0 {
		timer := time.NewTimer(a.syncDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	a.logger.InfoContext(ctx, "Account synced",
		applog.FieldOperation, applog.OpSync,
		applog.FieldRecordID, id)
	return nil
}

func (a *Accounts) Remove(ctx context.Context, id string) error {
	if err := a.store.Accounts.Delete(ctx, id); err != nil {
		return err
	}
	a.Load(ctx)
	return nil
}

func (a *Accounts) find(ctx context.Context, id string) (core.Account, bool) {
	for _, acc := range a.store.Accounts.List(ctx) {
		if acc.ID == id {
			return acc, true
		}
	}
	return core.Account{}, false
}
