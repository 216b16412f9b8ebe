package httpapi

import (
	"context"
	"errors"
	"net/url"

	"github.com/openhvx/hvxctl/internal/domain"
)

var errTenantIDRequired = errors.New("tenant id is required")

// TenantAPI wraps the admin tenant CRUD and quota endpoints. Quota
// arithmetic is server-side; this layer only shapes calls.
type TenantAPI struct {
	client *Client
}

func NewTenantAPI(client *Client) *TenantAPI {
	return &TenantAPI{client: client}
}

func (t *TenantAPI) List(ctx context.Context, query url.Values) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := t.client.Get(ctx, "v1/admin/tenants", query, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// CreateTenantRequest carries the new tenant plus optional flat quota
// limits.
type CreateTenantRequest struct {
	Name   string              `json:"name"`
	Quotas *domain.QuotaLimits `json:"quotas,omitempty"`
}

func (t *TenantAPI) Create(ctx context.Context, req CreateTenantRequest) (domain.Tenant, error) {
	var tenant domain.Tenant
	if err := t.client.Post(ctx, "v1/admin/tenants", req, &tenant); err != nil {
		return domain.Tenant{}, err
	}
	return tenant, nil
}

func (t *TenantAPI) Update(ctx context.Context, tenantID string, req CreateTenantRequest) (domain.Tenant, error) {
	if tenantID == "" {
		return domain.Tenant{}, errTenantIDRequired
	}

	var tenant domain.Tenant
	if err := t.client.Patch(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID), req, &tenant); err != nil {
		return domain.Tenant{}, err
	}
	return tenant, nil
}

func (t *TenantAPI) Delete(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return errTenantIDRequired
	}
	return t.client.Delete(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID))
}

func (t *TenantAPI) Quotas(ctx context.Context, tenantID string) (domain.TenantQuotas, error) {
	if tenantID == "" {
		return domain.TenantQuotas{}, errTenantIDRequired
	}

	var quotas domain.TenantQuotas
	if err := t.client.Get(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/quotas", nil, &quotas); err != nil {
		return domain.TenantQuotas{}, err
	}
	return quotas, nil
}

// PatchQuotaLimits updates the flat limits; the body nests them under
// "limits" as the gateway expects.
func (t *TenantAPI) PatchQuotaLimits(ctx context.Context, tenantID string, limits domain.QuotaLimits) (domain.TenantQuotas, error) {
	if tenantID == "" {
		return domain.TenantQuotas{}, errTenantIDRequired
	}

	body := struct {
		Limits domain.QuotaLimits `json:"limits"`
	}{Limits: limits}

	var quotas domain.TenantQuotas
	if err := t.client.Patch(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/quotas", body, &quotas); err != nil {
		return domain.TenantQuotas{}, err
	}
	return quotas, nil
}

// RecalculateQuotas asks the gateway to rebuild quota usage from the
// live inventory.
func (t *TenantAPI) RecalculateQuotas(ctx context.Context, tenantID string, fullInventory bool) (domain.TenantQuotas, error) {
	if tenantID == "" {
		return domain.TenantQuotas{}, errTenantIDRequired
	}

	body := struct {
		TenantID      string `json:"tenantId"`
		FullInventory bool   `json:"fullInventory"`
	}{TenantID: tenantID, FullInventory: fullInventory}

	var quotas domain.TenantQuotas
	if err := t.client.Post(ctx, "v1/admin/tenants/"+url.PathEscape(tenantID)+"/quotas/recalculate", body, &quotas); err != nil {
		return domain.TenantQuotas{}, err
	}
	return quotas, nil
}
