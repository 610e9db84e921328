package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"spendwise/internal/kv"
	applog "spendwise/internal/log"
)

// Operation names a collection write.
type Operation string

const (
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"
	OpReset  Operation = "reset"
)

// ReadResult is what a collection read always produces. Items is empty when the
// stored value could not be read or decoded; Recovered then carries the cause.
type ReadResult[T any] struct {
	Items     []T
	Recovered error
}

// Collection persists a list of records as one JSON array under a fixed key.
// Every write rewrites the whole array.
type Collection[T any] struct {
	key      string
	idOf     func(T) string
	store    kv.Store
	logger   *slog.Logger
	notifier Notifier
}

func newCollection[T any](key string, idOf func(T) string, store kv.Store, o options) *Collection[T] {
	return &Collection[T]{
		key:      key,
		idOf:     idOf,
		store:    store,
		logger:   o.logger.With(applog.FieldCollection, key),
		notifier: o.notifier,
	}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// Read loads the collection. It never fails: a missing key is an empty list and
// any backend or decode error is logged and degraded to an empty list.
func (c *Collection[T]) Read(ctx context.Context) ReadResult[T] {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to get collection", applog.FieldError, err)
		return ReadResult[T]{Recovered: fmt.Errorf("get %s: %w", c.key, err)}
	}
	if !ok || len(raw) == 0 {
		return ReadResult[T]{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode collection", applog.FieldError, err, applog.FieldBytes, len(raw))
		return ReadResult[T]{Recovered: fmt.Errorf("decode %s: %w", c.key, err)}
	}
	return ReadResult[T]{Items: items}
}

// List returns the records in insertion order.
func (c *Collection[T]) List(ctx context.Context) []T {
	return c.Read(ctx).Items
}

// Upsert replaces the record with the same id in place, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	id := c.idOf(rec)
	items := c.List(ctx)

	replaced := false
	for i := range items {
		if c.idOf(items[i]) == id {
			items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, rec)
	}

	if err := c.write(ctx, OpUpsert, id, items); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "Record saved", applog.FieldRecordID, id, "replaced", replaced, applog.FieldCount, len(items))
	return nil
}

func (c *Collection[T]) delete(ctx context.Context, id string) error {
	items := c.List(ctx)
	kept := items[:0]
	for _, it := range items {
		if c.idOf(it) != id {
			kept = append(kept, it)
		}
	}

	if err := c.write(ctx, OpDelete, id, kept); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "Record deleted", applog.FieldRecordID, id, applog.FieldCount, len(kept))
	return nil
}

func (c *Collection[T]) write(ctx context.Context, op Operation, id string, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return c.fail(ctx, op, id, fmt.Errorf("encode: %w", err))
	}
	if err := c.store.Set(ctx, c.key, body); err != nil {
		return c.fail(ctx, op, id, err)
	}

	if c.notifier != nil {
		ev := ChangeEvent{Collection: c.key, RecordID: id, Operation: op}
		if err := c.notifier.CollectionChanged(ctx, ev); err != nil {
			// The write already succeeded; listeners catch up on their next reload.
			c.logger.WarnContext(ctx, "Failed to publish change", applog.FieldRecordID, id, applog.FieldError, err)
		}
	}
	return nil
}

func (c *Collection[T]) fail(ctx context.Context, op Operation, id string, err error) error {
	c.logger.ErrorContext(ctx, "Failed to write collection",
		applog.FieldOperation, string(op),
		applog.FieldRecordID, id,
		applog.FieldError, err)
	return &WriteError{Collection: c.key, Op: op, RecordID: id, Err: err}
}

// DeletableCollection is a collection whose records may be removed by id.
type DeletableCollection[T any] struct {
	*Collection[T]
}

// Delete removes the record with the given id. Deleting an unknown id still
// rewrites the collection unchanged.
func (c DeletableCollection[T]) Delete(ctx context.Context, id string) error {
	return c.delete(ctx, id)
}
