package httpapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
)

// TaskAPI wraps the admin task endpoints. Both operations are pure
// pass-throughs with respect to retry; polling cadence lives in the
// application layer.
type TaskAPI struct {
	client *Client
}

var _ ports.TaskAPI = (*TaskAPI)(nil)

func NewTaskAPI(client *Client) *TaskAPI {
	return &TaskAPI{client: client}
}

// Submit enqueues the operation and returns the acknowledgment task,
// unwrapped from the optional {success, data} envelope.
func (t *TaskAPI) Submit(ctx context.Context, req domain.TaskRequest) (domain.Task, error) {
	var task domain.Task
	if err := t.client.Post(ctx, "v1/admin/tasks", req, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// FetchByID returns the unwrapped task document as raw JSON; the poller
// owns its interpretation.
func (t *TaskAPI) FetchByID(ctx context.Context, id string) (json.RawMessage, error) {
	return t.client.GetRaw(ctx, "v1/admin/tasks/"+url.PathEscape(id))
}
