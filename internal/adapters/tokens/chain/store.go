// Package chain reads a token through an ordered list of stores, making
// the storage-tier fallback explicit and testable with fake providers.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
)

type Store struct {
	stores []ports.TokenStore
}

var _ ports.TokenStore = (*Store)(nil)

var errEmptyChain = errors.New("token store chain is empty")

func NewStore(stores ...ports.TokenStore) *Store {
	store, err := NewStoreChecked(stores...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(stores ...ports.TokenStore) (*Store, error) {
	if len(stores) == 0 {
		return nil, errEmptyChain
	}
	for i, s := range stores {
		if s == nil {
			return nil, fmt.Errorf("token store %d in chain is nil", i)
		}
	}

	return &Store{stores: stores}, nil
}

// Get tries each store in order and returns the first token found.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, store := range s.stores {
		value, err := store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, err)
	}

	return "", fmt.Errorf("token chain get: %w", errors.Join(errs...))
}

// Put writes to the first store only; callers choosing a tier address
// that store directly.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	return s.stores[0].Put(ctx, key, value)
}

// Delete purges the key from every store in the chain.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	for _, store := range s.stores {
		if err := store.Delete(ctx, key); err != nil {
			if shouldStop(err) {
				return err
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("token chain delete: %w", errors.Join(errs...))
	}

	return nil
}

// shouldStop keeps context errors out of the fallback path; a canceled
// lookup must not be retried against the next tier. A plain miss
// (domain.ErrTokenNotFound) always falls through.
func shouldStop(err error) bool {
	if errors.Is(err, domain.ErrTokenNotFound) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
