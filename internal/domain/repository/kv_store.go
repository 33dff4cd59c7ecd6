package repository

import "context"

// KeyValueStore defines the interface for the persisted session state.
// Values are human readable strings, JSON encoded where structured.
// Get returns entity.ErrKeyNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
