package httpapi

import (
	"context"
	"encoding/json"
	"net/url"
)

// MetricsAPI wraps the admin metrics endpoints. Metric payloads are
// rendered as-is; their schema belongs to the gateway.
type MetricsAPI struct {
	client *Client
}

func NewMetricsAPI(client *Client) *MetricsAPI {
	return &MetricsAPI{client: client}
}

func (m *MetricsAPI) Overview(ctx context.Context) (json.RawMessage, error) {
	return m.get(ctx, "v1/admin/metrics/overview", nil)
}

func (m *MetricsAPI) Compute(ctx context.Context) (json.RawMessage, error) {
	return m.get(ctx, "v1/admin/metrics/compute", nil)
}

func (m *MetricsAPI) Datastores(ctx context.Context) (json.RawMessage, error) {
	return m.get(ctx, "v1/admin/metrics/datastores", nil)
}

func (m *MetricsAPI) VMs(ctx context.Context, agentID string) (json.RawMessage, error) {
	query := url.Values{}
	if agentID != "" {
		query.Set("agentId", agentID)
	}
	return m.get(ctx, "v1/admin/metrics/vms", query)
}

func (m *MetricsAPI) TenantOverview(ctx context.Context, tenantID string) (json.RawMessage, error) {
	if tenantID == "" {
		return nil, errTenantIDRequired
	}
	query := url.Values{}
	query.Set("tenantId", tenantID)
	return m.get(ctx, "v1/admin/metrics/tenant/overview", query)
}

func (m *MetricsAPI) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := m.client.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
