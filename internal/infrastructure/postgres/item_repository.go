package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementação do porto ItemRepository sobre PostgreSQL (usável com pool ou tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, unit, current_stock, min_stock, department, location,
	COALESCE(photo_url, ''), last_updated, last_updated_by, is_active`

// ListActive devolve todos os itens ativos ordenados por nome.
func (r *ItemRepo) ListActive(ctx context.Context) ([]entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE is_active ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Unit, &it.CurrentStock, &it.MinStock,
			&it.Department, &it.Location, &it.PhotoURL,
			&it.LastUpdated, &it.LastUpdatedBy, &it.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetByID devolve o item ativo pelo id; inexistente ou inativo devolve ErrNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND is_active`
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Name, &it.Unit, &it.CurrentStock, &it.MinStock,
		&it.Department, &it.Location, &it.PhotoURL,
		&it.LastUpdated, &it.LastUpdatedBy, &it.IsActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Create persiste um item novo, sempre ativo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO items (id, name, unit, current_stock, min_stock, department, location, photo_url, last_updated, last_updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, TRUE)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.CurrentStock, item.MinStock,
		item.Department, item.Location, item.PhotoURL, item.LastUpdated, item.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update reescreve os campos do item condicionado à revisão esperada.
// Revisão obsoleta devolve ErrConflict; item inexistente, ErrNotFound.
func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem, expectedRevision time.Time) error {
	query := `
		UPDATE items
		SET name = $2, unit = $3, current_stock = $4, min_stock = $5,
		    department = $6, location = $7, photo_url = NULLIF($8, ''),
		    last_updated = $9, last_updated_by = $10
		WHERE id = $1 AND is_active AND last_updated = $11`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.CurrentStock, item.MinStock,
		item.Department, item.Location, item.PhotoURL,
		item.LastUpdated, item.LastUpdatedBy, expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, item.ID)
	}
	return nil
}

// UpdateStock escreve o novo estoque e metadados, condicionado à revisão
// esperada para transformar corrida silenciosa em ErrConflict.
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, newStock int, actor string, at time.Time, expectedRevision time.Time) error {
	if newStock < 0 {
		return domain.ErrNegativeStock
	}
	query := `
		UPDATE items
		SET current_stock = $2, last_updated = $3, last_updated_by = $4
		WHERE id = $1 AND is_active AND last_updated = $5`
	tag, err := r.q.Exec(ctx, query, id, newStock, at, actor, expectedRevision)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, id)
	}
	return nil
}

// SoftDeleteAll marca todos os ids como inativos numa única chamada.
// A linha nunca é removida fisicamente: o trilho de movimentos continua
// referencialmente íntegro.
func (r *ItemRepo) SoftDeleteAll(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE items SET is_active = FALSE, last_updated = NOW() WHERE id = ANY($1)`
	if _, err := r.q.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("soft delete items: %w", err)
	}
	return nil
}

// conflictOrNotFound distingue update perdido por revisão obsoleta de
// item inexistente ou inativo.
func (r *ItemRepo) conflictOrNotFound(ctx context.Context, id string) error {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND is_active)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("verificar item %s: %w", id, err)
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}
