package records

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/kv/memory"
)

// flakyStore wraps a memory store and fails Get or Set on demand.
type flakyStore struct {
	*memory.Store
	getErr error
	setErr error
	sets   int
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func receipt(id, merchant string) core.Receipt {
	return core.Receipt{
		ID:           id,
		UserID:       core.DemoUserID,
		MerchantName: merchant,
		TotalAmount:  10,
		Currency:     core.DefaultCurrency,
		Date:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Category:     core.DefaultCategory,
	}
}

func TestListMissingKeyIsEmpty(t *testing.T) {
	s := NewStore(memory.New())
	res := s.Receipts.Read(context.Background())
	if len(res.Items) != 0 || res.Recovered != nil {
		t.Fatalf("expected clean empty read, got %+v", res)
	}
	if !s.Empty(context.Background()) {
		t.Fatalf("expected empty store")
	}
}

func TestUpsertAppendsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())

	for i, m := range []string{"C", "A", "B"} {
		if err := s.Receipts.Upsert(ctx, receipt(fmt.Sprintf("r%d", i), m)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got := s.Receipts.List(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 receipts, got %d", len(got))
	}
	for i, want := range []string{"C", "A", "B"} {
		if got[i].MerchantName != want {
			t.Fatalf("position %d: got %q want %q", i, got[i].MerchantName, want)
		}
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())

	_ = s.Receipts.Upsert(ctx, receipt("r1", "First"))
	_ = s.Receipts.Upsert(ctx, receipt("r2", "Second"))

	updated := receipt("r1", "First (edited)")
	updated.TotalAmount = 99.5
	if err := s.Receipts.Upsert(ctx, updated); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got := s.Receipts.List(ctx)
	if len(got) != 2 {
		t.Fatalf("length changed on replace: %d", len(got))
	}
	if got[0].ID != "r1" || got[0].MerchantName != "First (edited)" || got[0].TotalAmount != 99.5 {
		t.Fatalf("record not replaced in place: %+v", got[0])
	}
	if got[1].ID != "r2" {
		t.Fatalf("second record moved: %+v", got[1])
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())
	_ = s.Accounts.Upsert(ctx, core.Account{ID: "acc1", AccountType: core.Credit})
	_ = s.Accounts.Upsert(ctx, core.Account{ID: "acc2", AccountType: core.Savings})

	if err := s.Accounts.Delete(ctx, "acc1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := s.Accounts.List(ctx)
	if len(got) != 1 || got[0].ID != "acc2" {
		t.Fatalf("unexpected accounts after delete: %+v", got)
	}

	if err := s.Accounts.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting unknown id should succeed: %v", err)
	}
	if len(s.Accounts.List(ctx)) != 1 {
		t.Fatalf("unknown delete changed the collection")
	}
}

func TestReadDegradesOnCorruptValue(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	_ = backend.Set(ctx, TransactionsKey, []byte(`{"id":"not-an-array"}`))

	s := NewStore(backend)
	res := s.Transactions.Read(ctx)
	if len(res.Items) != 0 {
		t.Fatalf("expected empty items, got %v", res.Items)
	}
	if res.Recovered == nil {
		t.Fatalf("expected recovered decode error")
	}
	if got := s.Transactions.List(ctx); len(got) != 0 {
		t.Fatalf("List should degrade to empty, got %v", got)
	}
}

func TestReadDegradesOnBackendError(t *testing.T) {
	backend := &flakyStore{Store: memory.New(), getErr: errors.New("storage unavailable")}
	s := NewStore(backend)

	res := s.Accounts.Read(context.Background())
	if len(res.Items) != 0 || res.Recovered == nil {
		t.Fatalf("expected degraded read, got %+v", res)
	}
}

func TestWriteFailurePropagates(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk full")
	backend := &flakyStore{Store: memory.New(), setErr: cause}
	s := NewStore(backend)

	err := s.Transactions.Upsert(ctx, core.Transaction{ID: "txn1", MerchantName: "m", Amount: 1})
	if err == nil {
		t.Fatalf("expected write error")
	}
	if !IsWriteFailure(err) || !errors.Is(err, cause) {
		t.Fatalf("error should match ErrWriteFailed and its cause: %v", err)
	}
	var we *WriteError
	if !errors.As(err, &we) || we.Collection != TransactionsKey || we.Op != OpUpsert || we.RecordID != "txn1" {
		t.Fatalf("unexpected write error: %#v", err)
	}

	backend.setErr = nil
	if err := s.Transactions.Upsert(ctx, core.Transaction{ID: "txn1", MerchantName: "m", Amount: 1}); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if len(s.Transactions.List(ctx)) != 1 {
		t.Fatalf("expected one transaction after retry")
	}

	backend.setErr = cause
	if err := s.Receipts.Delete(ctx, "r1"); !IsWriteFailure(err) {
		t.Fatalf("delete should fail hard too, got %v", err)
	}
}

func TestUpsertOverwritesCorruptCollection(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	_ = backend.Set(ctx, ReceiptsKey, []byte(`not json`))

	s := NewStore(backend)
	if err := s.Receipts.Upsert(ctx, receipt("r1", "Fresh")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got := s.Receipts.List(ctx)
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("expected corrupt value replaced by the new record, got %v", got)
	}
}

func TestNotifierReceivesChanges(t *testing.T) {
	ctx := context.Background()
	var events []ChangeEvent
	s := NewStore(memory.New(), WithNotifier(NotifierFunc(func(_ context.Context, ev ChangeEvent) error {
		events = append(events, ev)
		return errors.New("broker down")
	})))

	if err := s.Receipts.Upsert(ctx, receipt("r1", "A")); err != nil {
		t.Fatalf("notifier failure must not fail the write: %v", err)
	}
	if err := s.Receipts.Delete(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []ChangeEvent{
		{Collection: ReceiptsKey, RecordID: "r1", Operation: OpUpsert},
		{Collection: ReceiptsKey, RecordID: "r1", Operation: OpDelete},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %+v want %+v", i, events[i], want[i])
		}
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())
	_ = s.Receipts.Upsert(ctx, receipt("shared", "R"))
	_ = s.Accounts.Upsert(ctx, core.Account{ID: "shared", AccountType: core.Checking})

	if len(s.Receipts.List(ctx)) != 1 || len(s.Accounts.List(ctx)) != 1 || len(s.Transactions.List(ctx)) != 0 {
		t.Fatalf("collections leaked into each other")
	}
	if s.Empty(ctx) {
		t.Fatalf("store should not be empty")
	}
}

// setOnlyStore has neither key listing nor removal.
type setOnlyStore struct{ m *memory.Store }

func (s setOnlyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.m.Get(ctx, key)
}

func (s setOnlyStore) Set(ctx context.Context, key string, value []byte) error {
	return s.m.Set(ctx, key, value)
}

func TestStatusReportsPresenceAndCorruption(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := NewStore(backend)
	if err := s.Receipts.Upsert(ctx, receipt("r1", "A")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := backend.Set(ctx, AccountsKey, []byte("{broken")); err != nil {
		t.Fatalf("set: %v", err)
	}

	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := []struct {
		key     string
		present bool
		count   int
		corrupt bool
	}{
		{ReceiptsKey, true, 1, false},
		{TransactionsKey, false, 0, false},
		{AccountsKey, true, 0, true},
	}
	for i, w := range want {
		got := st[i]
		if got.Key != w.key || got.Present != w.present || got.Count != w.count || (got.Recovered != nil) != w.corrupt {
			t.Errorf("status[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestResetRemovesCollections(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	var events []ChangeEvent
	s := NewStore(backend, WithNotifier(NotifierFunc(func(_ context.Context, ev ChangeEvent) error {
		events = append(events, ev)
		return nil
	})))
	if err := s.Receipts.Upsert(ctx, receipt("r1", "A")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Accounts.Upsert(ctx, core.Account{ID: "acc1", AccountType: core.Savings}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	events = nil

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !s.Empty(ctx) {
		t.Fatalf("expected empty store after reset")
	}
	keys, _ := backend.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
	if len(events) != 3 || events[0].Operation != OpReset {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestResetWithoutRemoverWritesEmptyArrays(t *testing.T) {
	ctx := context.Background()
	backend := setOnlyStore{m: memory.New()}
	s := NewStore(backend)
	if err := s.Transactions.Upsert(ctx, core.Transaction{ID: "t1", MerchantName: "M", Amount: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	raw, ok, _ := backend.Get(ctx, TransactionsKey)
	if !ok || string(raw) != "[]" {
		t.Fatalf("expected empty array, got %q ok=%v", raw, ok)
	}

	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, c := range st {
		if !c.Present {
			t.Fatalf("presence is unknown without key listing and should default to true: %+v", c)
		}
	}
}
