package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

// Payloads das ações pendentes. O movimento vai completo e com id
// pré-gerado: o replay reusa o mesmo id, e a constraint única do trilho
// transforma reenvio em no-op detectável (errAlreadyApplied).
type movementPayload struct {
	Movement entity.MovementLog `json:"movement"`
}

type itemPayload struct {
	Item     entity.InventoryItem `json:"item"`
	Movement entity.MovementLog   `json:"movement"`
}

type deletePayload struct {
	IDs []string `json:"ids"`
}

type userPayload struct {
	Profile entity.UserProfile `json:"profile"`
}

type deptPayload struct {
	Name string `json:"name"`
}

// errAlreadyApplied replay detectou que a autoridade já tem o efeito
// desta ação (ACK perdido num drain anterior). Tratado como sucesso.
var errAlreadyApplied = errors.New("ação já aplicada pela autoridade")

// DrainResult contagem do processamento da fila.
type DrainResult struct {
	Applied   int `json:"applied"`
	Discarded int `json:"discarded"`
	Remaining int `json:"remaining"`
}

// Drain reproduz a fila pendente em ordem de inserção contra a
// autoridade. Cada ação é validada contra o estado autoritativo
// corrente. Sucesso (ou efeito já presente) remove a entrada
// imediatamente; uma ação confirmada nunca é reenviada. Falha
// permanente (validação, conflito, recurso inexistente) descarta a
// entrada com warning: ela jamais aplicaria e encravaria a fila. Falha
// de rede aborta o drain e preserva o restante para a próxima tentativa.
func (e *Engine) Drain(ctx context.Context) DrainResult {
	e.drainMu.Lock()
	defer e.drainMu.Unlock()

	var res DrainResult
	if !e.online() {
		if actions, err := e.queue.List(); err == nil {
			res.Remaining = len(actions)
		}
		return res
	}

	actions, err := e.queue.List()
	if err != nil {
		e.log.Error().Err(err).Msg("fila pendente ilegível, drain abortado")
		return res
	}
	if len(actions) == 0 {
		return res
	}

	e.syncing.Store(true)
	defer e.syncing.Store(false)

	for i, action := range actions {
		err := e.replay(ctx, action)
		switch {
		case err == nil, errors.Is(err, errAlreadyApplied):
			if rmErr := e.queue.Remove(action.ID); rmErr != nil {
				e.log.Error().Err(rmErr).Str("actionId", action.ID).Msg("falha ao remover ação confirmada")
			}
			res.Applied++
			e.events.Publish(Event{Type: EventActionDrained, Detail: map[string]any{
				"actionId": action.ID, "kind": action.Kind,
			}})
		case isDomainErr(err):
			// Permanente: o estado autoritativo mudou por baixo da ação.
			if rmErr := e.queue.Remove(action.ID); rmErr != nil {
				e.log.Error().Err(rmErr).Str("actionId", action.ID).Msg("falha ao descartar ação inválida")
			}
			res.Discarded++
			e.log.Warn().Err(err).Str("actionId", action.ID).Str("kind", action.Kind).
				Msg("ação pendente invalidada pelo estado autoritativo, descartada")
			e.events.Publish(Event{Type: EventActionDiscarded, Detail: map[string]any{
				"actionId": action.ID, "kind": action.Kind, "error": err.Error(),
			}})
		default:
			// Rede: o restante fica para a próxima borda/notificação.
			res.Remaining = len(actions) - i
			e.log.Warn().Err(err).Int("remaining", res.Remaining).Msg("drain interrompido por falha de rede")
			return res
		}
	}
	return res
}

// replay aplica uma ação pendente contra a autoridade.
func (e *Engine) replay(ctx context.Context, action entity.PendingAction) error {
	switch action.Kind {
	case entity.ActionAddMovement:
		var p movementPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de movimento ilegível: %w", domain.ErrInvalidInput)
		}
		return e.replayMovement(ctx, p.Movement)

	case entity.ActionAddItem:
		var p itemPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de item ilegível: %w", domain.ErrInvalidInput)
		}
		return e.tx.Run(ctx, func(
			items repository.ItemRepository,
			movements repository.MovementRepository,
			_ repository.UserRepository,
			_ repository.DepartmentRepository,
		) error {
			if err := items.Create(ctx, &p.Item); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return errAlreadyApplied
				}
				return err
			}
			return movements.Append(ctx, &p.Movement)
		})

	case entity.ActionUpdateItem:
		var p itemPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de item ilegível: %w", domain.ErrInvalidInput)
		}
		return e.replayItemUpdate(ctx, p)

	case entity.ActionDeleteItem:
		var p deletePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de remoção ilegível: %w", domain.ErrInvalidInput)
		}
		// Soft-delete é naturalmente idempotente.
		return e.items.SoftDeleteAll(ctx, p.IDs)

	case entity.ActionAddUser:
		var p userPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de perfil ilegível: %w", domain.ErrInvalidInput)
		}
		return e.users.Upsert(ctx, &p.Profile)

	case entity.ActionAddDept:
		var p deptPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de departamento ilegível: %w", domain.ErrInvalidInput)
		}
		if err := e.departments.Add(ctx, p.Name); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return errAlreadyApplied
			}
			return err
		}
		return nil

	case entity.ActionDeleteDept:
		var p deptPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("payload de departamento ilegível: %w", domain.ErrInvalidInput)
		}
		if err := e.departments.Delete(ctx, p.Name); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errAlreadyApplied
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("tipo de ação desconhecido %q: %w", action.Kind, domain.ErrInvalidInput)
}

// replayMovement revalida o movimento contra o estoque autoritativo
// corrente e aplica update + append numa transação. O append vem antes
// do update: se este movimento já existe (ACK perdido), a detecção de
// duplicado aborta a transação antes de tocar o estoque de novo.
func (e *Engine) replayMovement(ctx context.Context, mov entity.MovementLog) error {
	return e.tx.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		_ repository.UserRepository,
		_ repository.DepartmentRepository,
	) error {
		if err := movements.Append(ctx, &mov); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return errAlreadyApplied
			}
			return err
		}

		item, err := items.GetByID(ctx, mov.ItemID)
		if err != nil {
			return err
		}
		projected := item.CurrentStock + mov.Quantity
		if mov.Type == entity.MovementTypeOUT {
			projected = item.CurrentStock - mov.Quantity
		}
		if projected < 0 {
			return domain.ErrNegativeStock
		}
		return items.UpdateStock(ctx, item.ID, projected, mov.ActorBadge, mov.CreatedAt, item.LastUpdated)
	})
}

// replayItemUpdate reaplica uma edição offline sobre a revisão
// autoritativa corrente (a edição enfileirada vence, last-writer-wins).
func (e *Engine) replayItemUpdate(ctx context.Context, p itemPayload) error {
	return e.tx.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		_ repository.UserRepository,
		_ repository.DepartmentRepository,
	) error {
		current, err := items.GetByID(ctx, p.Item.ID)
		if err != nil {
			return err
		}
		if err := items.Update(ctx, &p.Item, current.LastUpdated); err != nil {
			return err
		}
		if err := movements.Append(ctx, &p.Movement); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil // trilho já tem o registro, edição reaplicada
			}
			return err
		}
		return nil
	})
}
