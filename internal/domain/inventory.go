package domain

// VMState is the display state of a virtual machine as the console
// renders it.
type VMState string

const (
	VMStateRunning VMState = "Running"
	VMStateOff     VMState = "Off"
	VMStatePaused  VMState = "Paused"
	VMStateSaved   VMState = "Saved"
)

// InventoryRow is one VM line of the live inventory table. Identity is
// agent-scoped: AgentID plus the first non-empty of GUID, ID, Name.
type InventoryRow struct {
	AgentID    string   `json:"agentId"`
	GUID       string   `json:"guid"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	State      VMState  `json:"state,omitempty"`
	CPU        int      `json:"cpu,omitempty"`
	RAMMB      int64    `json:"ramMB,omitempty"`
	Switches   []string `json:"switches,omitempty"`
	IPs        []string `json:"ips,omitempty"`
	DiskProvMB int64    `json:"diskProvMB,omitempty"`
	DiskUsedMB int64    `json:"diskUsedMB,omitempty"`
}

// Key returns the composite uniqueness key for the row.
func (r InventoryRow) Key() string {
	return RowKey(r.AgentID, r.GUID, r.ID, r.Name)
}

// RowKey builds the composite key from an agent id and the reference id
// candidates in priority order.
func RowKey(agentID string, refs ...string) string {
	ref := ""
	for _, r := range refs {
		if r != "" {
			ref = r
			break
		}
	}
	return agentID + "::" + ref
}

// RowPatch is a partial update for one inventory row. Nil pointer and
// empty string/slice fields mean "unknown, do not overwrite"; only set
// fields are merged into an existing row.
type RowPatch struct {
	AgentID    string
	GUID       string
	ID         string
	Name       string
	State      *VMState
	CPU        *int
	RAMMB      *int64
	Switches   []string
	IPs        []string
	DiskProvMB *int64
	DiskUsedMB *int64
}

// Key returns the composite key the patch addresses.
func (p RowPatch) Key() string {
	return RowKey(p.AgentID, p.GUID, p.ID, p.Name)
}

// Addressable reports whether the patch resolves to a row key.
func (p RowPatch) Addressable() bool {
	return p.AgentID != "" && (p.GUID != "" || p.ID != "" || p.Name != "")
}

// MergeInto applies the patch's set fields to the row, preserving every
// field the patch leaves unset.
func (p RowPatch) MergeInto(row *InventoryRow) {
	if p.AgentID != "" {
		row.AgentID = p.AgentID
	}
	if p.GUID != "" {
		row.GUID = p.GUID
	}
	if p.ID != "" {
		row.ID = p.ID
	}
	if p.Name != "" {
		row.Name = p.Name
	}
	if p.State != nil {
		row.State = *p.State
	}
	if p.CPU != nil {
		row.CPU = *p.CPU
	}
	if p.RAMMB != nil {
		row.RAMMB = *p.RAMMB
	}
	if p.Switches != nil {
		row.Switches = p.Switches
	}
	if p.IPs != nil {
		row.IPs = p.IPs
	}
	if p.DiskProvMB != nil {
		row.DiskProvMB = *p.DiskProvMB
	}
	if p.DiskUsedMB != nil {
		row.DiskUsedMB = *p.DiskUsedMB
	}
}

// Row materializes a new row from the patch's set fields only.
func (p RowPatch) Row() InventoryRow {
	var row InventoryRow
	p.MergeInto(&row)
	return row
}
