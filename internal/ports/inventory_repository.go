package ports

import (
	"context"

	"github.com/openhvx/hvxctl/internal/domain"
)

// InventoryRepository persists the reconciled inventory snapshot between
// CLI invocations.
type InventoryRepository interface {
	Load(ctx context.Context) ([]domain.InventoryRow, error)
	Save(ctx context.Context, rows []domain.InventoryRow) error
}
