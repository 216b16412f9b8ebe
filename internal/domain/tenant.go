package domain

// Tenant is a console-managed tenant record. Quota arithmetic is
// server-side; the client only shapes requests and renders responses.
type Tenant struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Quotas *QuotaLimits `json:"quotas,omitempty"`
}

// QuotaLimits are the flat per-tenant resource limits.
type QuotaLimits struct {
	CPU          *int64 `json:"cpu,omitempty"`
	MemoryMB     *int64 `json:"memoryMB,omitempty"`
	StorageMB    *int64 `json:"storageMB,omitempty"`
	VMCount      *int64 `json:"vmCount,omitempty"`
	NetworkCount *int64 `json:"networkCount,omitempty"`
}

// QuotaUsage pairs a limit with its current consumption.
type QuotaUsage struct {
	Limit int64 `json:"limit"`
	Used  int64 `json:"used"`
}

// TenantQuotas is the per-tenant quota report returned by the quotas
// endpoint.
type TenantQuotas struct {
	CPU          QuotaUsage `json:"cpu"`
	MemoryMB     QuotaUsage `json:"memoryMB"`
	StorageMB    QuotaUsage `json:"storageMB"`
	VMCount      QuotaUsage `json:"vmCount"`
	NetworkCount QuotaUsage `json:"networkCount"`
}
