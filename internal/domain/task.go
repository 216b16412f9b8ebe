package domain

import "encoding/json"

// TaskStatus values reported by the gateway. Some agent builds never set
// status and signal completion through the ok flag instead; both
// conventions are part of the task contract.
const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
	TaskStatusError   = "error"
)

// Task is the read-only projection of a server-tracked asynchronous
// operation, fetched by id. The client never mutates it.
type Task struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId"`

	Status string `json:"status"`
	OK     *bool  `json:"ok"`
	Error  string `json:"error"`

	Result json.RawMessage `json:"result"`

	// Data is a secondary envelope some gateway versions wrap the task
	// document in, on top of the {success, data} transport envelope.
	Data json.RawMessage `json:"data"`
}

// Ref returns the task identifier, whichever field the server used.
func (t Task) Ref() string {
	if t.TaskID != "" {
		return t.TaskID
	}
	return t.ID
}

// Succeeded reports terminal success under the dual status/ok contract.
func (t Task) Succeeded() bool {
	return t.Status == TaskStatusDone || (t.OK != nil && *t.OK)
}

// Failed reports terminal failure under the dual status/ok contract.
func (t Task) Failed() bool {
	return t.Status == TaskStatusError || (t.OK != nil && !*t.OK)
}

// TaskRequest is the enqueue payload accepted by POST /v1/admin/tasks.
type TaskRequest struct {
	Action   string         `json:"action"`
	AgentID  string         `json:"agentId,omitempty"`
	RefID    string         `json:"refId,omitempty"`
	TenantID string         `json:"tenantId,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}
