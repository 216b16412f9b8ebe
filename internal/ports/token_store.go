package ports

import "context"

// TokenStore persists the bearer credential under a fixed key. Stores
// report a missing entry with domain.ErrTokenNotFound; Delete of a
// missing entry is not an error.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
