// Package records persists receipts, transactions and accounts as JSON arrays in a
// key-value store.
//
// Reads fail soft: a broken or unreadable collection reads as empty so screens can
// always render. Writes fail hard: the caller gets a *WriteError.
package records

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/core"
	"spendwise/internal/kv"
	applog "spendwise/internal/log"
)

const (
	ReceiptsKey     = "receipts"
	TransactionsKey = "transactions"
	AccountsKey     = "accounts"
)

// ChangeEvent describes a successful collection write.
type ChangeEvent struct {
	Collection string
	RecordID   string
	Operation  Operation
}

// Notifier is told about every successful write.
type Notifier interface {
	CollectionChanged(ctx context.Context, ev ChangeEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev ChangeEvent) error

func (f NotifierFunc) CollectionChanged(ctx context.Context, ev ChangeEvent) error {
	return f(ctx, ev)
}

type options struct {
	logger   *slog.Logger
	notifier Notifier
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// Store bundles the three collections. Transactions cannot be deleted.
type Store struct {
	Receipts     DeletableCollection[core.Receipt]
	Transactions *Collection[core.Transaction]
	Accounts     DeletableCollection[core.Account]

	backend kv.Store
	opts    options
}

func NewStore(backend kv.Store, opts ...Option) *Store {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = applog.Or(o.logger).With(applog.FieldComponent, applog.ComponentStore)

	return &Store{
		backend: backend,
		opts:    o,
		Receipts: DeletableCollection[core.Receipt]{
			newCollection(ReceiptsKey, func(r core.Receipt) string { return r.ID }, backend, o),
		},
		Transactions: newCollection(TransactionsKey, func(t core.Transaction) string { return t.ID }, backend, o),
		Accounts: DeletableCollection[core.Account]{
			newCollection(AccountsKey, func(a core.Account) string { return a.ID }, backend, o),
		},
	}
}

// Empty reports whether all three collections read as empty.
func (s *Store) Empty(ctx context.Context) bool {
	return len(s.Receipts.List(ctx)) == 0 &&
		len(s.Accounts.List(ctx)) == 0 &&
		len(s.Transactions.List(ctx)) == 0
}

// CollectionStatus describes one persisted collection.
type CollectionStatus struct {
	Key       string
	Present   bool
	Count     int
	Recovered error
}

// Status reads every collection and reports which keys exist and which were
// unreadable. Presence is only known for backends that can list their keys.
func (s *Store) Status(ctx context.Context) ([]CollectionStatus, error) {
	present := map[string]bool{}
	keyer, canList := s.backend.(kv.Keyer)
	if canList {
		keys, err := keyer.Keys(ctx)
		if err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		for _, k := range keys {
			present[k] = true
		}
	}

	status := func(key string, count int, recovered error) CollectionStatus {
		return CollectionStatus{Key: key, Present: !canList || present[key], Count: count, Recovered: recovered}
	}
	r, t, a := s.Receipts.Read(ctx), s.Transactions.Read(ctx), s.Accounts.Read(ctx)
	return []CollectionStatus{
		status(ReceiptsKey, len(r.Items), r.Recovered),
		status(TransactionsKey, len(t.Items), t.Recovered),
		status(AccountsKey, len(a.Items), a.Recovered),
	}, nil
}

// Reset drops all three collections. Backends without key removal get empty arrays.
func (s *Store) Reset(ctx context.Context) error {
	remover, canRemove := s.backend.(kv.Remover)
	for _, key := range []string{ReceiptsKey, TransactionsKey, AccountsKey} {
		var err error
		if canRemove {
			err = remover.Remove(ctx, key)
		} else {
			err = s.backend.Set(ctx, key, []byte("[]"))
		}
		if err != nil {
			return &WriteError{Collection: key, Op: OpReset, Err: err}
		}
		if s.opts.notifier != nil {
			ev := ChangeEvent{Collection: key, Operation: OpReset}
			if err := s.opts.notifier.CollectionChanged(ctx, ev); err != nil {
				s.opts.logger.WarnContext(ctx, "Failed to publish change", applog.FieldCollection, key, applog.FieldError, err)
			}
		}
	}
	s.opts.logger.InfoContext(ctx, "Record store reset")
	return nil
}
