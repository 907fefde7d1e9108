package repository

import (
	"context"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// MovementRepository define a porta do trilho de auditoria (append-only).
// Não há Update nem Delete: movimentos são imutáveis uma vez criados.
type MovementRepository interface {
	ListRecent(ctx context.Context, limit int) ([]entity.MovementLog, error)
	Append(ctx context.Context, mov *entity.MovementLog) error
}
