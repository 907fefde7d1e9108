package localstore

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

var _ appsync.ActionQueue = (*ActionQueue)(nil)

// ActionQueue log durável e ordenado de ações pendentes sobre SQLite.
// A ordem de inserção é dada pelo seq autoincrement, não pelo timestamp.
type ActionQueue struct {
	store *Store
}

// NewActionQueue constrói a fila sobre o Store aberto.
func NewActionQueue(store *Store) *ActionQueue {
	return &ActionQueue{store: store}
}

// newActionID id resistente a colisão: epoch-millis + sufixo aleatório.
// Único entre reinícios do processo e clientes concorrentes.
func newActionID(now time.Time) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d-%s", now.UnixMilli(), hex.EncodeToString(suffix))
}

// Enqueue atribui id e timestamp à ação e a anexa ao fim do log.
func (q *ActionQueue) Enqueue(kind string, payload any) (entity.PendingAction, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return entity.PendingAction{}, fmt.Errorf("serializar payload %s: %w", kind, err)
	}

	now := time.Now().UTC()
	action := entity.PendingAction{
		ID:        newActionID(now),
		Kind:      kind,
		Payload:   raw,
		CreatedAt: now,
	}

	_, err = q.store.db.Exec(
		`INSERT INTO pending_actions (id, kind, payload, created_at) VALUES (?, ?, ?, ?)`,
		action.ID, action.Kind, []byte(action.Payload), action.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return entity.PendingAction{}, fmt.Errorf("enfileirar ação %s: %w", kind, err)
	}
	return action, nil
}

// List devolve todas as ações pendentes em ordem de inserção.
// Entradas com timestamp ilegível mantêm o zero value em CreatedAt em
// vez de derrubar a listagem.
func (q *ActionQueue) List() ([]entity.PendingAction, error) {
	rows, err := q.store.db.Query(
		`SELECT id, kind, payload, created_at FROM pending_actions ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listar ações pendentes: %w", err)
	}
	defer rows.Close()

	var actions []entity.PendingAction
	for rows.Next() {
		var a entity.PendingAction
		var payload []byte
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Kind, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("ler ação pendente: %w", err)
		}
		a.Payload = payload
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			a.CreatedAt = ts
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// Remove apaga exatamente uma entrada pelo id; no-op se ausente.
func (q *ActionQueue) Remove(id string) error {
	if _, err := q.store.db.Exec(`DELETE FROM pending_actions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remover ação %s: %w", id, err)
	}
	return nil
}

// Clear esvazia a fila.
func (q *ActionQueue) Clear() error {
	if _, err := q.store.db.Exec(`DELETE FROM pending_actions`); err != nil {
		return fmt.Errorf("limpar fila: %w", err)
	}
	return nil
}
