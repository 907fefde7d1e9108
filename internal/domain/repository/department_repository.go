package repository

import "context"

// DepartmentRepository define a porta para departamentos (apenas nome,
// usados como chave de filtro, sem versionamento próprio).
type DepartmentRepository interface {
	ListNames(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}
