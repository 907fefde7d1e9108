package postgres

import (
	"context"
	"fmt"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementação do porto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// List devolve todos os perfis ordenados por nome.
func (r *UserRepo) List(ctx context.Context) ([]entity.UserProfile, error) {
	query := `SELECT badge, name, role, COALESCE(photo_url, ''), created_at FROM users ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []entity.UserProfile
	for rows.Next() {
		var u entity.UserProfile
		if err := rows.Scan(&u.Badge, &u.Name, &u.Role, &u.PhotoURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Upsert insere ou atualiza o perfil pelo crachá (chave natural).
func (r *UserRepo) Upsert(ctx context.Context, profile *entity.UserProfile) error {
	query := `
		INSERT INTO users (badge, name, role, photo_url, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (badge) DO UPDATE
		SET name = EXCLUDED.name, role = EXCLUDED.role, photo_url = EXCLUDED.photo_url`
	_, err := r.q.Exec(ctx, query,
		profile.Badge, profile.Name, profile.Role, profile.PhotoURL, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
