package repository

import (
	"context"
	"time"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// ItemRepository define a porta de persistência autoritativa para InventoryItem (DIP).
// UpdateStock e Update condicionam a escrita à revisão esperada (last_updated):
// revisão obsoleta devolve domain.ErrConflict em vez de aceitar a corrida.
type ItemRepository interface {
	ListActive(ctx context.Context) ([]entity.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem, expectedRevision time.Time) error
	UpdateStock(ctx context.Context, id string, newStock int, actor string, at time.Time, expectedRevision time.Time) error
	SoftDeleteAll(ctx context.Context, ids []string) error
}
