package ports

import "context"

// KVStore holds small bits of client state, such as the last farmer id the
// terminal client played as. Get returns ErrNotFound for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
