// Package kv defines the on-device key-value namespace the record store persists into.
package kv

import "context"

// Ports for key-value backends.
type (
	// Store maps string keys to opaque blobs. A missing key reports ok=false with a nil
	// error; err is reserved for backend failures.
	Store interface {
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
		Set(ctx context.Context, key string, value []byte) error
	}

	// Remover is implemented by backends that can drop a key entirely.
	Remover interface {
		Remove(ctx context.Context, key string) error
	}

	// Keyer is implemented by backends that can enumerate their keys.
	Keyer interface {
		Keys(ctx context.Context) ([]string, error)
	}
)
