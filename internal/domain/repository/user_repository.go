package repository

import (
	"context"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// UserRepository define a porta de persistência autoritativa para UserProfile (DIP).
type UserRepository interface {
	List(ctx context.Context) ([]entity.UserProfile, error)
	Upsert(ctx context.Context, profile *entity.UserProfile) error
}
