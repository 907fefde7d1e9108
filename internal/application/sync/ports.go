package sync

import (
	"context"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

// Snapshot cópia last-known-good das quatro coleções autoritativas.
type Snapshot struct {
	Items       []entity.InventoryItem `json:"items"`
	Movements   []entity.MovementLog   `json:"movements"`
	Users       []entity.UserProfile   `json:"users"`
	Departments []string               `json:"departments"`
}

// IsEmpty indica se o snapshot não carrega nenhuma coleção.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0 && len(s.Movements) == 0 &&
		len(s.Users) == 0 && len(s.Departments) == 0
}

// SnapshotStore porta do cache local durável. Save substitui as quatro
// coleções por convenção atômica; Load nunca falha: chave ausente ou
// valor malformado devolvem coleções vazias.
type SnapshotStore interface {
	Save(snap Snapshot) error
	Load() Snapshot
}

// ActionQueue porta do log ordenado e durável de mutações devidas à
// autoridade. Entradas sobrevivem a reinícios e só saem via Remove após
// confirmação, ou via Clear.
type ActionQueue interface {
	Enqueue(kind string, payload any) (entity.PendingAction, error)
	List() ([]entity.PendingAction, error)
	Remove(id string) error
	Clear() error
}

// TxRunner executa uma função dentro de uma transação da autoridade,
// passando repositórios atados a essa transação. Garante que o update de
// estoque e o append do movimento apliquem juntos ou nenhum.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		users repository.UserRepository,
		departments repository.DepartmentRepository,
	) error) error
}
