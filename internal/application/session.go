package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/rs/zerolog"
)

// Session owns the authenticated identity: the bearer credential, the
// fetched profile and the initialized flag. Bootstrap is single-flight:
// concurrent Init calls share one restore-and-fetch sequence and
// observe its single result.
type Session struct {
	creds *Credentials
	api   ports.AuthAPI
	log   zerolog.Logger

	mu          sync.Mutex
	user        *domain.Profile
	initialized bool
	initFuture  *initFuture
}

// initFuture is the explicit in-flight bootstrap handle. err is written
// before done is closed, so waiters read it without further locking.
type initFuture struct {
	done chan struct{}
	err  error
}

func NewSession(creds *Credentials, api ports.AuthAPI, log zerolog.Logger) *Session {
	return &Session{creds: creds, api: api, log: log}
}

// Init restores the persisted credential and fetches the profile when a
// token is present. Ready sessions return immediately; a bootstrap
// already in flight is joined, never duplicated. The bootstrap itself
// carries no timeout of its own; a caller-supplied context deadline is
// the only bound.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	if f := s.initFuture; f != nil {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return f.err
		}
	}

	f := &initFuture{done: make(chan struct{})}
	s.initFuture = f
	s.mu.Unlock()

	f.err = s.bootstrap(ctx)

	s.mu.Lock()
	s.initialized = f.err == nil
	s.initFuture = nil
	s.mu.Unlock()
	close(f.done)

	return f.err
}

func (s *Session) bootstrap(ctx context.Context) error {
	token, err := s.creds.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore credential: %w", err)
	}
	if token == "" {
		return nil
	}

	s.FetchMeIfNeeded(ctx)
	return nil
}

// Login authenticates against the gateway, persists the token in the
// tier matching the remember choice, and fetches the profile.
func (s *Session) Login(ctx context.Context, email, password string, remember bool) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	token := resp.BearerToken()
	if token == "" {
		return fmt.Errorf("login: %w", domain.ErrMissingToken)
	}

	tier := TierEphemeral
	if remember {
		tier = TierDurable
	}
	if err := s.creds.Set(ctx, token, tier); err != nil {
		return err
	}

	profile, err := s.api.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	s.mu.Lock()
	s.user = &profile
	s.mu.Unlock()

	return nil
}

// Logout clears the in-memory identity, purges the credential from both
// tiers and resets the state machine so a later Init performs a full
// restore cycle.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.initialized = false
	s.initFuture = nil
	s.mu.Unlock()

	return s.creds.Purge(ctx)
}

// FetchMeIfNeeded fetches the profile only when a token is present and
// none is cached. Failure is swallowed: the transport interceptor
// already performs the corrective 401 handling, and a second
// user-visible error would be redundant noise.
func (s *Session) FetchMeIfNeeded(ctx context.Context) {
	if s.creds.Token() == "" {
		return
	}
	s.mu.Lock()
	cached := s.user != nil
	s.mu.Unlock()
	if cached {
		return
	}

	profile, err := s.api.Me(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("profile fetch failed")
		return
	}

	s.mu.Lock()
	s.user = &profile
	s.mu.Unlock()
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string { return s.creds.Token() }

// User returns the cached profile, nil when none was fetched.
func (s *Session) User() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Initialized reports whether a bootstrap has completed.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
