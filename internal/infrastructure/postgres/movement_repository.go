package postgres

import (
	"context"
	"fmt"

	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementação append-only do trilho de auditoria sobre PostgreSQL.
// A tabela não recebe UPDATE nem DELETE de nenhum caminho do código.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// ListRecent devolve os N movimentos mais recentes, do mais novo para o mais antigo.
func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]entity.MovementLog, error) {
	query := `
		SELECT id, item_id, item_name, type, quantity, actor_badge, actor_name, COALESCE(reason, ''), created_at
		FROM movements
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movs []entity.MovementLog
	for rows.Next() {
		var m entity.MovementLog
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.ItemName, &m.Type, &m.Quantity,
			&m.ActorBadge, &m.ActorName, &m.Reason, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movs = append(movs, m)
	}
	return movs, rows.Err()
}

// Append anexa um movimento. Reinserir o mesmo id é rejeitado pela
// constraint única e devolve ErrDuplicate (replay idempotente).
func (r *MovementRepo) Append(ctx context.Context, mov *entity.MovementLog) error {
	query := `
		INSERT INTO movements (id, item_id, item_name, type, quantity, actor_badge, actor_name, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.ItemID, mov.ItemName, mov.Type, mov.Quantity,
		mov.ActorBadge, mov.ActorName, mov.Reason, mov.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}
