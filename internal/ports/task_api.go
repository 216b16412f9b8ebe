package ports

import (
	"context"
	"encoding/json"

	"github.com/openhvx/hvxctl/internal/domain"
)

// TaskAPI submits operations and fetches task documents by id. Both
// calls are pass-throughs: envelope unwrapping happens inside, retry
// does not (that is the poller's job).
type TaskAPI interface {
	Submit(ctx context.Context, req domain.TaskRequest) (domain.Task, error)
	FetchByID(ctx context.Context, id string) (json.RawMessage, error)
}
