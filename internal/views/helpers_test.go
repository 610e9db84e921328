package views

import (
	"context"
	"fmt"
	"testing"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/kv/memory"
	"spendwise/internal/records"
)

type failingStore struct {
	*memory.Store
	setErr error
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestStore() (*records.Store, *failingStore) {
	backend := &failingStore{Store: memory.New()}
	return records.NewStore(backend), backend
}

// addTransactions stores n transactions of category, one day apart starting at testNow.
func addTransactions(t *testing.T, store *records.Store, prefix, category string, n int, amount float64) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		txn := core.Transaction{
			ID:           fmt.Sprintf("%s%02d", prefix, i),
			AccountID:    "acc1",
			UserID:       core.DemoUserID,
			Amount:       amount,
			Date:         testNow.AddDate(0, 0, -i),
			MerchantName: "Merchant " + prefix,
			Category:     category,
		}
		if err := store.Transactions.Upsert(ctx, txn); err != nil {
			t.Fatalf("upsert %s: %v", txn.ID, err)
		}
	}
}
