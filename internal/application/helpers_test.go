package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/openhvx/hvxctl/internal/domain"
)

// memStore is an in-memory token store fake with injectable failures.
type memStore struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	putErr  error
	delErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]string{}}
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("token %q: %w", key, domain.ErrTokenNotFound)
	}
	return value, nil
}

func (s *memStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.entries, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

func (s *memStore) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key]
}

// fakeAuthAPI counts calls and serves canned responses.
type fakeAuthAPI struct {
	mu       sync.Mutex
	loginOut domain.LoginResponse
	loginErr error
	meOut    domain.Profile
	meErr    error

	loginCalls int
	meCalls    int
	meGate     chan struct{}
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (domain.LoginResponse, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	return f.loginOut, f.loginErr
}

func (f *fakeAuthAPI) Me(ctx context.Context) (domain.Profile, error) {
	f.mu.Lock()
	f.meCalls++
	gate := f.meGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.meOut, f.meErr
}

func (f *fakeAuthAPI) meCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

// fakeTaskAPI serves a scripted sequence of fetch responses; the last
// entry repeats once the script runs out.
type fakeTaskAPI struct {
	mu        sync.Mutex
	submitOut domain.Task
	submitErr error
	fetches   []fetchStep

	submitted  []domain.TaskRequest
	fetchCalls int
}

type fetchStep struct {
	raw json.RawMessage
	err error
}

func (f *fakeTaskAPI) Submit(ctx context.Context, req domain.TaskRequest) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	return f.submitOut, f.submitErr
}

func (f *fakeTaskAPI) FetchByID(ctx context.Context, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	i := f.fetchCalls - 1
	if i >= len(f.fetches) {
		i = len(f.fetches) - 1
	}
	step := f.fetches[i]
	return step.raw, step.err
}

func (f *fakeTaskAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// fakeClock advances only when told to; Now never blocks.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
