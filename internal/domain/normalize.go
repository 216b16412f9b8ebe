package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// taskOutcome is the union of the shapes a task result shows up in.
// Agents inline VM facts under "vm", older gateway builds nest the
// target descriptor under "data", and some callers hand over the whole
// task document instead of its result.
type taskOutcome struct {
	Result json.RawMessage `json:"result"`

	Target         *targetRef   `json:"target"`
	Data           *outcomeData `json:"data"`
	VM             *vmFacts     `json:"vm"`
	State          string       `json:"state"`
	RequestedState string       `json:"requestedState"`
}

type outcomeData struct {
	Target *targetRef `json:"target"`
	State  string     `json:"state"`
}

type targetRef struct {
	AgentID string `json:"agentId"`
	RefID   string `json:"refId"`
}

type vmFacts struct {
	AgentID          string    `json:"agentId"`
	GUID             string    `json:"guid"`
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	State            string    `json:"state"`
	CPU              *int      `json:"cpu"`
	CPUCount         *int      `json:"cpuCount"`
	MemoryAssignedMB *int64    `json:"memoryAssignedMB"`
	Memory           *vmMemory `json:"memory"`
	Switches         []string  `json:"switches"`
	Network          string    `json:"network"`
	IPs              []string  `json:"ips"`
	Disk             *vmDisk   `json:"disk"`
}

type vmMemory struct {
	Startup *int64 `json:"startup"`
}

type vmDisk struct {
	VHDSizeBytes *int64 `json:"vhd_size"`
	FileSizeMB   *int64 `json:"fileSizeMB"`
}

// VMPatchFromTask maps a heterogeneous task result payload to an
// inventory row patch. It accepts either an already-unwrapped task
// result or a full task document (whose result field is used). A
// payload that resolves to no agent id or reference id yields nil; a
// patch without an addressable key is discarded, never partially
// applied.
func VMPatchFromTask(raw json.RawMessage) *RowPatch {
	outcome, ok := decodeOutcome(raw)
	if !ok {
		return nil
	}
	if len(outcome.Result) > 0 && !isJSONNull(outcome.Result) {
		if inner, ok := decodeOutcome(outcome.Result); ok {
			outcome = inner
		}
	}

	vm := outcome.VM
	if vm == nil {
		vm = &vmFacts{}
	}

	agentID := ""
	refID := ""
	if outcome.Target != nil {
		agentID = outcome.Target.AgentID
		refID = outcome.Target.RefID
	}
	if agentID == "" && outcome.Data != nil && outcome.Data.Target != nil {
		agentID = outcome.Data.Target.AgentID
		if refID == "" {
			refID = outcome.Data.Target.RefID
		}
	}
	if agentID == "" {
		agentID = vm.AgentID
	}
	if refID == "" {
		refID = firstNonEmpty(vm.GUID, vm.ID, vm.Name)
	}
	if agentID == "" || refID == "" {
		return nil
	}

	patch := &RowPatch{
		AgentID: agentID,
		GUID:    refID,
		ID:      refID,
		Name:    firstNonEmpty(vm.Name, refID),
	}

	// State priority: explicit vm.state, then the result's own state,
	// then a derivation from the free-text requested state.
	switch {
	case vm.State != "":
		state := VMState(vm.State)
		patch.State = &state
	case outcome.State != "":
		state := VMState(outcome.State)
		patch.State = &state
	default:
		requested := outcome.RequestedState
		if requested == "" && outcome.Data != nil {
			requested = outcome.Data.State
		}
		patch.State = StateFromRequested(requested)
	}

	if vm.CPU != nil {
		patch.CPU = vm.CPU
	} else if vm.CPUCount != nil {
		patch.CPU = vm.CPUCount
	}

	if vm.MemoryAssignedMB != nil {
		patch.RAMMB = vm.MemoryAssignedMB
	} else if vm.Memory != nil && vm.Memory.Startup != nil {
		patch.RAMMB = bytesToMB(*vm.Memory.Startup)
	}

	if vm.Switches != nil {
		patch.Switches = vm.Switches
	} else if vm.Network != "" {
		patch.Switches = []string{vm.Network}
	}
	if vm.IPs != nil {
		patch.IPs = vm.IPs
	}

	if vm.Disk != nil {
		if vm.Disk.VHDSizeBytes != nil {
			patch.DiskProvMB = bytesToMB(*vm.Disk.VHDSizeBytes)
		}
		if vm.Disk.FileSizeMB != nil {
			patch.DiskUsedMB = vm.Disk.FileSizeMB
		}
	}

	return patch
}

// StateFromRequested derives a display state from the free-text
// requested-state token of a power task. Unrecognized tokens yield nil
// rather than a guess.
func StateFromRequested(requested string) *VMState {
	var state VMState
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "start", "on", "poweron", "resume":
		state = VMStateRunning
	case "off", "poweroff", "shutdown":
		state = VMStateOff
	case "pause", "suspend":
		state = VMStatePaused
	case "save":
		state = VMStateSaved
	case "restart", "reboot":
		state = VMStateRunning
	default:
		return nil
	}
	return &state
}

func decodeOutcome(raw json.RawMessage) (taskOutcome, bool) {
	var outcome taskOutcome
	if len(raw) == 0 || isJSONNull(raw) {
		return outcome, false
	}
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return outcome, false
	}
	return outcome, true
}

func bytesToMB(b int64) *int64 {
	if b == 0 {
		return nil
	}
	mb := int64(math.Round(float64(b) / (1024 * 1024)))
	return &mb
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
