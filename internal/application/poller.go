package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/rs/zerolog"
)

const (
	// DefaultPollInterval is a fixed cadence by design; task latencies
	// on the agents are seconds to minutes and backoff would only delay
	// the terminal observation.
	DefaultPollInterval = 1200 * time.Millisecond
	DefaultPollTimeout  = 120 * time.Second
)

// WaitOptions bounds a polling wait. Zero values take the defaults.
// OnStatus, when set, is called from the polling goroutine each time
// the observed task status changes, including the first observation.
type WaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	OnStatus func(status string)
}

// Poller fetches a task by id until it reaches a terminal state or the
// deadline passes. Fetches within one wait are strictly sequential;
// waits for different ids interleave freely.
type Poller struct {
	api   ports.TaskAPI
	clock ports.Clock
	log   zerolog.Logger
}

func NewPoller(api ports.TaskAPI, clock ports.Clock, log zerolog.Logger) *Poller {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Poller{api: api, clock: clock, log: log}
}

// Wait polls the task until terminal status, deadline or context
// cancellation. On success it returns the task's result payload, or
// the whole unwrapped document for servers that inline the payload. A
// server-reported failure surfaces as *domain.TaskError; a missed
// deadline as domain.ErrTaskTimeout.
func (p *Poller) Wait(ctx context.Context, id string, opts WaitOptions) (json.RawMessage, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	deadline := p.clock.Now().Add(timeout)
	lastStatus := ""
	for attempt := 1; ; attempt++ {
		raw, err := p.api.FetchByID(ctx, id)
		if err != nil {
			return nil, err
		}

		doc, task := decodeTaskDoc(raw)

		if opts.OnStatus != nil {
			if status := statusLabel(task); status != lastStatus {
				lastStatus = status
				opts.OnStatus(status)
			}
		}

		switch {
		case task.Succeeded():
			p.log.Debug().Str("task", id).Int("attempts", attempt).Msg("task done")
			if len(task.Result) > 0 && !jsonNull(task.Result) {
				return task.Result, nil
			}
			return doc, nil
		case task.Failed():
			return nil, &domain.TaskError{TaskID: id, Message: task.Error}
		}

		now := p.clock.Now()
		if now.After(deadline) || now.Add(interval).After(deadline) {
			return nil, fmt.Errorf("wait task %s: %w", id, domain.ErrTaskTimeout)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// decodeTaskDoc unwraps the optional secondary data envelope around a
// task document and returns both the effective document and its decoded
// projection.
func decodeTaskDoc(raw json.RawMessage) (json.RawMessage, domain.Task) {
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return raw, domain.Task{}
	}

	if len(task.Data) > 0 && !jsonNull(task.Data) {
		var inner domain.Task
		if err := json.Unmarshal(task.Data, &inner); err == nil {
			return task.Data, inner
		}
	}

	return raw, task
}

// statusLabel names the task's observed state for progress reporting,
// covering servers that signal through ok instead of status.
func statusLabel(task domain.Task) string {
	if task.Status != "" {
		return task.Status
	}
	if task.OK != nil {
		if *task.OK {
			return domain.TaskStatusDone
		}
		return domain.TaskStatusError
	}
	return domain.TaskStatusPending
}

func jsonNull(raw json.RawMessage) bool { return string(raw) == "null" }
