package store

import "context"

/**
 * Store persists checkpoints and per-node run records outside the engine.
 * Keys are namespaced by prefix so one backend can hold several record
 * kinds. The engine treats stored bytes as opaque JSON.
 */
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte) error
	/**
	 * Remove a prefix and key.
	 * Removing a nonexistent prefix + key does NOT return an error.
	 */
	Remove(ctx context.Context, prefix, key string) error

	List(ctx context.Context, prefix string, iterator func(key string) bool) error
}
