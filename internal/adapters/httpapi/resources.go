package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
)

var errResourceIDRequired = errors.New("resource id is required")

// ResourceAPI wraps the unassigned-resource and tenant-resource
// endpoints. Payloads beyond the named fields are opaque JSON.
type ResourceAPI struct {
	client *Client
}

func NewResourceAPI(client *Client) *ResourceAPI {
	return &ResourceAPI{client: client}
}

// ResourceSelection names a resource type and the ids to act on, used
// by both bulk-delete and claim.
type ResourceSelection struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

func (r *ResourceAPI) ListUnassigned(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Get(ctx, "v1/admin/resources/unassigned", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ResourceAPI) BulkDeleteUnassigned(ctx context.Context, sel ResourceSelection) error {
	return r.client.Post(ctx, "v1/admin/resources/unassigned/bulk-delete", sel, nil)
}

func (r *ResourceAPI) TenantResources(ctx context.Context, tenantID string, query url.Values) (json.RawMessage, error) {
	if tenantID == "" {
		return nil, errTenantIDRequired
	}

	var out json.RawMessage
	if err := r.client.Get(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/resources", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ResourceAPI) Claim(ctx context.Context, tenantID string, sel ResourceSelection) error {
	if tenantID == "" {
		return errTenantIDRequired
	}
	return r.client.Post(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/resources/claim", sel, nil)
}

func (r *ResourceAPI) DeleteTenantResource(ctx context.Context, tenantID, resourceID string) error {
	if tenantID == "" {
		return errTenantIDRequired
	}
	if resourceID == "" {
		return errResourceIDRequired
	}
	return r.client.Delete(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/resources/"+url.PathEscape(resourceID))
}

func (r *ResourceAPI) Images(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Get(ctx, "v1/admin/images", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
