// Package storage provides the durable key-value substrate used by the
// session checkpoint. Values are opaque byte payloads keyed by string.
package storage

import "errors"

// ErrNotFound indicates a requested key is missing.
var ErrNotFound = errors.New("key not found")

// KV is a minimal durable key-value store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	// Keys returns every key with the given prefix.
	Keys(prefix string) ([]string, error)
	Close() error
}
