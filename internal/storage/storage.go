// Package storage defines the persistent key-value store behind the session
// engine. Values are opaque strings; decoding is the caller's responsibility,
// including falling back to a safe default when a value does not parse.
package storage

import "context"

// Store is a flat key-value store with read/write/remove semantics.
type Store interface {
	// Read returns the value for the key. A missing key is not an error:
	// it is reported through the boolean.
	Read(ctx context.Context, key string) (value string, ok bool, err error)

	// Write stores the value under the key, overwriting any existing value.
	Write(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error
}
