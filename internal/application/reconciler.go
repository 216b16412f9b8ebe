package application

import (
	"context"
	"sync"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/rs/zerolog"
)

// Inventory is the keyed collection of VM rows the console renders.
// At most one row exists per composite key; patches merge set fields
// only and rows are never deleted here (deletion belongs to the
// resource endpoints).
type Inventory struct {
	api ports.TaskAPI
	log zerolog.Logger

	mu   sync.Mutex
	rows []domain.InventoryRow
}

func NewInventory(api ports.TaskAPI, log zerolog.Logger) *Inventory {
	return &Inventory{api: api, log: log}
}

// ApplyPatch merges the patch into the row it addresses, or inserts a
// new row at the front of the collection. A nil or unaddressable patch
// is a no-op; it is never partially applied.
func (inv *Inventory) ApplyPatch(patch *domain.RowPatch) {
	if patch == nil || !patch.Addressable() {
		return
	}

	key := patch.Key()

	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i := range inv.rows {
		if inv.rows[i].Key() == key {
			patch.MergeInto(&inv.rows[i])
			return
		}
	}

	inv.rows = append([]domain.InventoryRow{patch.Row()}, inv.rows...)
}

// SubmitAndPatch enqueues the task and, once the gateway acknowledges
// it, applies the optimistic patch so the table reflects the expected
// end state before the poll completes. The patch is applied only after
// acknowledgment: a submit that fails before a task id exists leaves
// the collection untouched. Callers needing correction when the task
// itself fails re-patch from the poll result.
func (inv *Inventory) SubmitAndPatch(ctx context.Context, req domain.TaskRequest, optimistic *domain.RowPatch) (string, error) {
	task, err := inv.api.Submit(ctx, req)
	if err != nil {
		return "", err
	}

	if optimistic != nil {
		inv.ApplyPatch(optimistic)
		inv.log.Debug().Str("task", task.Ref()).Str("row", optimistic.Key()).Msg("optimistic patch applied")
	}

	return task.Ref(), nil
}

// ApplyTaskResult normalizes a task result payload and applies the
// derived patch; payloads with no addressable row are discarded.
func (inv *Inventory) ApplyTaskResult(result []byte) {
	inv.ApplyPatch(domain.VMPatchFromTask(result))
}

// Rows returns a snapshot copy of the collection, front-insertion order
// preserved.
func (inv *Inventory) Rows() []domain.InventoryRow {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	rows := make([]domain.InventoryRow, len(inv.rows))
	copy(rows, inv.rows)
	return rows
}

// Len reports the number of rows.
func (inv *Inventory) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.rows)
}

// Replace swaps the collection wholesale, used when loading a persisted
// snapshot.
func (inv *Inventory) Replace(rows []domain.InventoryRow) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.rows = append([]domain.InventoryRow(nil), rows...)
}
