package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
)

// TokenKey is the single storage key the bearer credential lives under,
// in exactly one of the two tiers at a time.
const TokenKey = "openhvx/admin/token"

// Tier selects the credential's persistence lifetime.
type Tier string

const (
	// TierDurable survives restarts.
	TierDurable Tier = "durable"
	// TierEphemeral lasts one login session.
	TierEphemeral Tier = "ephemeral"
)

// Credentials owns the bearer token. The in-memory copy feeds the
// transport's header injection; the tier stores persist it. Setting a
// token in one tier evicts the other tier's copy, so at most one
// non-empty token exists across both tiers.
type Credentials struct {
	mu        sync.RWMutex
	token     string
	durable   ports.TokenStore
	ephemeral ports.TokenStore
	lookup    ports.TokenStore
}

// NewCredentials wires the two tier stores plus the ordered read chain
// (durable first, then ephemeral) used for restore.
func NewCredentials(durable, ephemeral, lookup ports.TokenStore) *Credentials {
	return &Credentials{durable: durable, ephemeral: ephemeral, lookup: lookup}
}

// Token returns the in-memory token; empty means unauthenticated. The
// transport reads it on every outgoing request, so a Set is visible to
// requests issued immediately after.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Set persists a non-empty token in the chosen tier, evicts the other
// tier's copy and updates the in-memory token. An empty token clears
// the in-memory copy and purges both tiers unconditionally; purging an
// absent token is not an error.
func (c *Credentials) Set(ctx context.Context, token string, tier Tier) error {
	if token == "" {
		return c.Purge(ctx)
	}

	target, other := c.durable, c.ephemeral
	if tier == TierEphemeral {
		target, other = c.ephemeral, c.durable
	}

	if err := target.Put(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persist token (%s): %w", tier, err)
	}
	if err := other.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("evict token from other tier: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return nil
}

// Get returns the current token: the in-memory copy when set, else the
// first tier in the read chain holding one, else empty. In-memory wins
// so a read right after Set never observes stale storage.
func (c *Credentials) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	token, err := c.lookup.Get(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return "", nil
		}
		return "", err
	}

	return token, nil
}

// Restore loads a persisted token into memory so the transport starts
// injecting it. Returns the restored token, or empty when no tier holds
// one.
func (c *Credentials) Restore(ctx context.Context) (string, error) {
	token, err := c.Get(ctx)
	if err != nil {
		return "", err
	}
	if token != "" {
		c.mu.Lock()
		c.token = token
		c.mu.Unlock()
	}

	return token, nil
}

// Purge clears the in-memory token and both tiers. Idempotent; it is
// the transport's corrective action on a 401 and the logout path's
// teardown.
func (c *Credentials) Purge(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	var errs []error
	if err := c.durable.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, err)
	}
	if err := c.ephemeral.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("purge token: %w", errors.Join(errs...))
	}

	return nil
}
