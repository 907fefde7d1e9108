package postgres

import (
	"context"
	"fmt"

	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementação do porto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// ListNames devolve os nomes de departamento em ordem alfabética.
func (r *DepartmentRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Add insere um departamento; nome repetido devolve ErrDuplicate.
func (r *DepartmentRepo) Add(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO departments (name) VALUES ($1)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// Delete remove o departamento pelo nome; ausente devolve ErrNotFound.
func (r *DepartmentRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM departments WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
