package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoller(api *fakeTaskAPI) *Poller {
	return NewPoller(api, newFakeClock(), zerolog.Nop())
}

func TestPollerWaitTerminalSignals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "status done", doc: `{"id":"t1","status":"done","result":{"x":1}}`},
		{name: "ok true without status", doc: `{"id":"t1","ok":true,"result":{"x":1}}`},
		{name: "status error", doc: `{"id":"t1","status":"error","error":"boom"}`, wantErr: true},
		{name: "ok false without status", doc: `{"id":"t1","ok":false,"error":"boom"}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeTaskAPI{fetches: []fetchStep{{raw: json.RawMessage(tc.doc)}}}
			result, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{})

			if tc.wantErr {
				var taskErr *domain.TaskError
				require.ErrorAs(t, err, &taskErr)
				assert.Equal(t, "t1", taskErr.TaskID)
				assert.Contains(t, taskErr.Error(), "boom")
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, `{"x":1}`, string(result))
			assert.Equal(t, 1, api.fetchCount())
		})
	}
}

func TestPollerWaitKeepsPollingUntilTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeTaskAPI{fetches: []fetchStep{
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
		{raw: json.RawMessage(`{"id":"t1","status":"done","result":{"ok":1}}`)},
	}}

	result, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":1}`, string(result))
	assert.Equal(t, 3, api.fetchCount())
}

func TestPollerWaitSuccessWithoutResultReturnsDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := `{"id":"t1","status":"done","vm":{"agentId":"a1","guid":"g1"}}`
	api := &fakeTaskAPI{fetches: []fetchStep{{raw: json.RawMessage(doc)}}}

	result, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(result))
}

func TestPollerWaitUnwrapsSecondaryDataEnvelope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := `{"data":{"id":"t1","status":"done","result":{"inner":true}}}`
	api := &fakeTaskAPI{fetches: []fetchStep{{raw: json.RawMessage(doc)}}}

	result, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"inner":true}`, string(result))
}

func TestPollerWaitTimeoutShorterThanIntervalFailsFast(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeTaskAPI{fetches: []fetchStep{
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
	}}

	start := time.Now()
	_, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{
		Interval: time.Second,
		Timeout:  50 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.ErrorIs(t, err, domain.ErrTaskTimeout)
	assert.Less(t, elapsed, 100*time.Millisecond, "a sleep that cannot fit the deadline is never taken")
	assert.Equal(t, 1, api.fetchCount())
}

func TestPollerWaitDeadlinePassesWhileClockAdvances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeTaskAPI{fetches: []fetchStep{
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
	}}
	clock := newFakeClock()
	poller := NewPoller(api, clock, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := poller.Wait(ctx, "t1", WaitOptions{Interval: time.Millisecond, Timeout: time.Minute})
		done <- err
	}()

	require.Eventually(t, func() bool { return api.fetchCount() >= 1 }, 5*time.Second, time.Millisecond,
		"the deadline is computed before the first fetch, so advancing is safe only after it")
	clock.advance(2 * time.Minute)

	select {
	case err := <-done:
		require.ErrorIs(t, err, domain.ErrTaskTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("poller never observed the passed deadline")
	}
}

func TestPollerWaitContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	api := &fakeTaskAPI{fetches: []fetchStep{
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
	}}

	_, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{Interval: 5 * time.Second})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollerWaitReportsStatusTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeTaskAPI{fetches: []fetchStep{
		{raw: json.RawMessage(`{"id":"t1"}`)},
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
		{raw: json.RawMessage(`{"id":"t1","status":"pending"}`)},
		{raw: json.RawMessage(`{"id":"t1","status":"done","result":{"x":1}}`)},
	}}

	var seen []string
	_, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{
		Interval: time.Millisecond,
		OnStatus: func(status string) { seen = append(seen, status) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pending", "done"}, seen, "repeats collapse, missing status reads as pending")
}

func TestPollerWaitPropagatesFetchError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fetchErr := errors.New("gateway unreachable")
	api := &fakeTaskAPI{fetches: []fetchStep{{err: fetchErr}}}

	_, err := newTestPoller(api).Wait(ctx, "t1", WaitOptions{})
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 1, api.fetchCount(), "transport errors stop the poll")
}
