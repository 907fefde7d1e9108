// Package sync implementa o motor de sincronização: espelho em memória
// do conjunto autoritativo, refresh completo com guarda de sequência,
// mutações com guarda de estoque negativo, enfileiramento offline e
// drain idempotente da fila pendente.
package sync

import (
	"context"
	"errors"
	"strings"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

// Desfechos de mutação.
const (
	OutcomeApplied = "applied" // confirmado pela autoridade
	OutcomeQueued  = "queued"  // aplicado otimista, devido à autoridade
)

// MutationResult resultado de uma mutação iniciada pelo ator.
type MutationResult struct {
	Outcome  string                `json:"outcome"`
	ActionID string                `json:"actionId,omitempty"` // id da ação pendente quando Outcome = queued
	Item     *entity.InventoryItem `json:"item,omitempty"`
}

// Status fotografia do ciclo de sincronização para a UI.
type Status struct {
	Online       bool      `json:"online"`
	Syncing      bool      `json:"syncing"`
	LastSyncAt   time.Time `json:"lastSyncAt"`
	PendingCount int       `json:"pendingCount"`
}

// EngineDeps dependências do motor.
type EngineDeps struct {
	Items         repository.ItemRepository
	Movements     repository.MovementRepository
	Users         repository.UserRepository
	Departments   repository.DepartmentRepository
	Tx            TxRunner
	Cache         SnapshotStore
	Queue         ActionQueue
	Online        func() bool // monitor de conectividade
	MovementLimit int         // N movimentos por refresh (referência: 500)
	Log           *logger.Logger
}

// Engine único componente autorizado a falar com a autoridade e único
// escritor do State, do snapshot local e da fila pendente.
type Engine struct {
	items       repository.ItemRepository
	movements   repository.MovementRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	tx          TxRunner
	cache       SnapshotStore
	queue       ActionQueue
	online      func() bool
	limit       int
	log         *logger.Logger

	state  *State
	events *Broadcaster

	sf          singleflight.Group
	refreshSeq  atomic.Uint64 // última sequência de refresh emitida
	appliedSeq  atomic.Uint64 // última sequência aplicada ao State
	syncing     atomic.Bool   // IDLE=false, SYNCING=true
	drainMu     gosync.Mutex
	userApplied func(entity.UserProfile) // hook da sessão ativa
}

// NewEngine constrói o motor com o State vazio.
func NewEngine(deps EngineDeps) *Engine {
	e := &Engine{
		items:       deps.Items,
		movements:   deps.Movements,
		users:       deps.Users,
		departments: deps.Departments,
		tx:          deps.Tx,
		cache:       deps.Cache,
		queue:       deps.Queue,
		online:      deps.Online,
		limit:       deps.MovementLimit,
		log:         deps.Log,
		state:       NewState(),
		events:      NewBroadcaster(),
	}
	if e.online == nil {
		e.online = func() bool { return true }
	}
	if e.limit <= 0 {
		e.limit = 500
	}
	return e
}

// State devolve o contêiner de projeções read-only.
func (e *Engine) State() *State { return e.state }

// Events devolve o fan-out de eventos de sincronização.
func (e *Engine) Events() *Broadcaster { return e.events }

// OnUserApplied registra o hook chamado após upsert confirmado de perfil
// (a sessão ativa usa para se atualizar in place).
func (e *Engine) OnUserApplied(fn func(entity.UserProfile)) { e.userApplied = fn }

// Status devolve a fotografia corrente do ciclo de sincronização.
func (e *Engine) Status() Status {
	pending := 0
	if actions, err := e.queue.List(); err == nil {
		pending = len(actions)
	}
	return Status{
		Online:       e.online(),
		Syncing:      e.syncing.Load(),
		LastSyncAt:   e.state.LastSyncAt(),
		PendingCount: pending,
	}
}

// ── Movimentos ────────────────────────────────────────────────────────────────

// MovementInput entrada para registrar um movimento IN/OUT.
type MovementInput struct {
	ItemID     string `json:"itemId"`
	Type       string `json:"type"` // IN | OUT
	Quantity   int    `json:"quantity"`
	ActorBadge string `json:"actorBadge"`
	ActorName  string `json:"actorName"`
	Reason     string `json:"reason,omitempty"`
}

// ApplyStockMovement valida a projeção de estoque contra o último valor
// conhecido ANTES de qualquer rede: projeção negativa devolve
// ErrNegativeStock e nada é escrito nem enfileirado. Online, o update do
// estoque e o append do movimento aplicam numa única transação; falha de
// rede ou estado offline enfileiram a ação e aplicam otimista ao State.
func (e *Engine) ApplyStockMovement(ctx context.Context, in MovementInput) (*MutationResult, error) {
	if in.Type != entity.MovementTypeIN && in.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.ItemID == "" || in.ActorBadge == "" {
		return nil, domain.ErrInvalidInput
	}

	item, ok := e.state.ItemByID(in.ItemID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	projected := item.CurrentStock + in.Quantity
	if in.Type == entity.MovementTypeOUT {
		projected = item.CurrentStock - in.Quantity
	}
	if projected < 0 {
		return nil, domain.ErrNegativeStock
	}

	now := time.Now().UTC()
	mov := entity.MovementLog{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		ItemName:   item.Name, // snapshot histórico, não acompanha renomeações
		Type:       in.Type,
		Quantity:   in.Quantity,
		ActorBadge: in.ActorBadge,
		ActorName:  in.ActorName,
		Reason:     strings.TrimSpace(in.Reason),
		CreatedAt:  now,
	}

	if !e.online() {
		return e.queueMovement(item, mov, projected, now)
	}

	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		_ repository.UserRepository,
		_ repository.DepartmentRepository,
	) error {
		if err := items.UpdateStock(ctx, item.ID, projected, in.ActorBadge, now, item.LastUpdated); err != nil {
			return err
		}
		return movements.Append(ctx, &mov)
	})
	switch {
	case err == nil:
		updated := e.applyMovementLocal(item, mov, projected, now)
		return &MutationResult{Outcome: OutcomeApplied, Item: &updated}, nil
	case isDomainErr(err):
		// Validação/conflito contra o estado autoritativo: nunca enfileira.
		return nil, err
	default:
		e.log.Warn().Err(err).Str("item", item.ID).Msg("autoridade inacessível, enfileirando movimento")
		return e.queueMovement(item, mov, projected, now)
	}
}

// queueMovement enfileira a ação e aplica otimista ao State.
func (e *Engine) queueMovement(item entity.InventoryItem, mov entity.MovementLog, projected int, now time.Time) (*MutationResult, error) {
	action, err := e.queue.Enqueue(entity.ActionAddMovement, movementPayload{Movement: mov})
	if err != nil {
		return nil, err
	}
	updated := e.applyMovementLocal(item, mov, projected, now)
	e.events.Publish(Event{Type: EventActionQueued, Detail: map[string]any{
		"actionId": action.ID, "kind": action.Kind,
	}})
	return &MutationResult{Outcome: OutcomeQueued, ActionID: action.ID, Item: &updated}, nil
}

// applyMovementLocal grava o efeito do movimento no State e no snapshot.
func (e *Engine) applyMovementLocal(item entity.InventoryItem, mov entity.MovementLog, projected int, now time.Time) entity.InventoryItem {
	item.CurrentStock = projected
	item.LastUpdated = now
	item.LastUpdatedBy = mov.ActorBadge
	e.state.UpsertItem(item)
	e.state.PrependMovement(mov, e.limit)
	e.commitLocal()
	return item
}

// ── Itens ─────────────────────────────────────────────────────────────────────

// ItemInput campos de criação/edição de item (texto livre ainda cru).
type ItemInput struct {
	ID           string `json:"id,omitempty"` // obrigatório na edição
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
	Department   string `json:"department"`
	Location     string `json:"location"`
	PhotoURL     string `json:"photoUrl,omitempty"`
	ActorBadge   string `json:"actorBadge"`
	ActorName    string `json:"actorName"`
}

// UpsertItem normaliza os campos de texto livre para caixa-alta
// canônica, gera id para item novo e sempre anexa um movimento
// CREATE/EDIT refletindo o estoque resultante.
func (e *Engine) UpsertItem(ctx context.Context, in ItemInput, isEditing bool) (*MutationResult, error) {
	name := normalizeText(in.Name)
	unit := normalizeText(in.Unit)
	dept := normalizeText(in.Department)
	if name == "" || unit == "" || dept == "" || in.ActorBadge == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinStock < 0 {
		return nil, domain.ErrNegativeStock
	}

	now := time.Now().UTC()
	movType := entity.MovementTypeCREATE
	var expectedRevision time.Time

	item := entity.InventoryItem{
		ID:            in.ID,
		Name:          name,
		Unit:          unit,
		CurrentStock:  in.CurrentStock,
		MinStock:      in.MinStock,
		Department:    dept,
		Location:      normalizeText(in.Location),
		PhotoURL:      strings.TrimSpace(in.PhotoURL),
		LastUpdated:   now,
		LastUpdatedBy: in.ActorBadge,
		IsActive:      true,
	}

	if isEditing {
		existing, ok := e.state.ItemByID(in.ID)
		if !ok {
			return nil, domain.ErrNotFound
		}
		movType = entity.MovementTypeEDIT
		expectedRevision = existing.LastUpdated
	} else {
		item.ID = uuid.NewString()
	}

	mov := entity.MovementLog{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		Type:       movType,
		Quantity:   item.CurrentStock, // estoque resultante
		ActorBadge: in.ActorBadge,
		ActorName:  in.ActorName,
		CreatedAt:  now,
	}

	if !e.online() {
		return e.queueItem(item, mov, isEditing)
	}

	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		_ repository.UserRepository,
		_ repository.DepartmentRepository,
	) error {
		if isEditing {
			if err := items.Update(ctx, &item, expectedRevision); err != nil {
				return err
			}
		} else {
			if err := items.Create(ctx, &item); err != nil {
				return err
			}
		}
		return movements.Append(ctx, &mov)
	})
	switch {
	case err == nil:
		e.state.UpsertItem(item)
		e.state.PrependMovement(mov, e.limit)
		e.commitLocal()
		return &MutationResult{Outcome: OutcomeApplied, Item: &item}, nil
	case isDomainErr(err):
		return nil, err
	default:
		e.log.Warn().Err(err).Str("item", item.ID).Msg("autoridade inacessível, enfileirando upsert de item")
		return e.queueItem(item, mov, isEditing)
	}
}

func (e *Engine) queueItem(item entity.InventoryItem, mov entity.MovementLog, isEditing bool) (*MutationResult, error) {
	kind := entity.ActionAddItem
	if isEditing {
		kind = entity.ActionUpdateItem
	}
	action, err := e.queue.Enqueue(kind, itemPayload{Item: item, Movement: mov})
	if err != nil {
		return nil, err
	}
	e.state.UpsertItem(item)
	e.state.PrependMovement(mov, e.limit)
	e.commitLocal()
	e.events.Publish(Event{Type: EventActionQueued, Detail: map[string]any{
		"actionId": action.ID, "kind": action.Kind,
	}})
	return &MutationResult{Outcome: OutcomeQueued, ActionID: action.ID, Item: &item}, nil
}

// ── Usuários ──────────────────────────────────────────────────────────────────

// UpsertUser insere ou atualiza um perfil. Confirmado, dispara o hook da
// sessão ativa (que se atualiza se o crachá coincidir).
func (e *Engine) UpsertUser(ctx context.Context, profile entity.UserProfile) (*MutationResult, error) {
	profile.Badge = strings.TrimSpace(profile.Badge)
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Badge == "" || profile.Name == "" || !entity.ValidRole(profile.Role) {
		return nil, domain.ErrInvalidInput
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	if !e.online() {
		return e.queueUser(profile)
	}

	if err := e.users.Upsert(ctx, &profile); err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		e.log.Warn().Err(err).Str("badge", profile.Badge).Msg("autoridade inacessível, enfileirando perfil")
		return e.queueUser(profile)
	}

	e.state.UpsertUser(profile)
	e.commitLocal()
	if e.userApplied != nil {
		e.userApplied(profile)
	}
	return &MutationResult{Outcome: OutcomeApplied}, nil
}

func (e *Engine) queueUser(profile entity.UserProfile) (*MutationResult, error) {
	action, err := e.queue.Enqueue(entity.ActionAddUser, userPayload{Profile: profile})
	if err != nil {
		return nil, err
	}
	e.state.UpsertUser(profile)
	e.commitLocal()
	if e.userApplied != nil {
		e.userApplied(profile)
	}
	e.events.Publish(Event{Type: EventActionQueued, Detail: map[string]any{
		"actionId": action.ID, "kind": action.Kind,
	}})
	return &MutationResult{Outcome: OutcomeQueued, ActionID: action.ID}, nil
}

// ── Soft-delete em lote ───────────────────────────────────────────────────────

// BatchSoftDelete marca os itens como inativos numa única chamada
// autoritativa. Sucesso remove otimista do State antes do refresh de
// reconciliação; falha deixa o State intacto e devolve o erro.
func (e *Engine) BatchSoftDelete(ctx context.Context, ids []string) (*MutationResult, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}

	if !e.online() {
		return e.queueDelete(ids)
	}

	if err := e.items.SoftDeleteAll(ctx, ids); err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		e.log.Warn().Err(err).Int("count", len(ids)).Msg("autoridade inacessível, enfileirando soft-delete")
		return e.queueDelete(ids)
	}

	e.state.RemoveItems(ids)
	e.commitLocal()

	// Reconciliação completa em segundo plano; a remoção otimista acima
	// mantém a UI responsiva enquanto o refresh roda.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := e.Refresh(ctx, false); err != nil {
			e.log.Warn().Err(err).Msg("refresh de reconciliação pós-remoção falhou")
		}
	}()

	return &MutationResult{Outcome: OutcomeApplied}, nil
}

func (e *Engine) queueDelete(ids []string) (*MutationResult, error) {
	action, err := e.queue.Enqueue(entity.ActionDeleteItem, deletePayload{IDs: ids})
	if err != nil {
		return nil, err
	}
	e.state.RemoveItems(ids)
	e.commitLocal()
	e.events.Publish(Event{Type: EventActionQueued, Detail: map[string]any{
		"actionId": action.ID, "kind": action.Kind,
	}})
	return &MutationResult{Outcome: OutcomeQueued, ActionID: action.ID}, nil
}

// ── Departamentos ─────────────────────────────────────────────────────────────

// AddDepartment cria um departamento (chave de filtro, sem versão própria).
func (e *Engine) AddDepartment(ctx context.Context, name string) (*MutationResult, error) {
	name = normalizeText(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	if !e.online() {
		return e.queueDept(entity.ActionAddDept, name)
	}
	if err := e.departments.Add(ctx, name); err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return e.queueDept(entity.ActionAddDept, name)
	}
	e.state.AddDepartment(name)
	e.commitLocal()
	return &MutationResult{Outcome: OutcomeApplied}, nil
}

// DeleteDepartment remove um departamento pelo nome.
func (e *Engine) DeleteDepartment(ctx context.Context, name string) (*MutationResult, error) {
	name = normalizeText(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	if !e.online() {
		return e.queueDept(entity.ActionDeleteDept, name)
	}
	if err := e.departments.Delete(ctx, name); err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return e.queueDept(entity.ActionDeleteDept, name)
	}
	e.state.RemoveDepartment(name)
	e.commitLocal()
	return &MutationResult{Outcome: OutcomeApplied}, nil
}

func (e *Engine) queueDept(kind, name string) (*MutationResult, error) {
	action, err := e.queue.Enqueue(kind, deptPayload{Name: name})
	if err != nil {
		return nil, err
	}
	if kind == entity.ActionAddDept {
		e.state.AddDepartment(name)
	} else {
		e.state.RemoveDepartment(name)
	}
	e.commitLocal()
	e.events.Publish(Event{Type: EventActionQueued, Detail: map[string]any{
		"actionId": action.ID, "kind": action.Kind,
	}})
	return &MutationResult{Outcome: OutcomeQueued, ActionID: action.ID}, nil
}

// ── Auxiliares ────────────────────────────────────────────────────────────────

// commitLocal registra uma escrita local no State: persiste o snapshot
// e invalida qualquer refresh em voo, cuja resposta foi buscada antes
// desta escrita e não pode mais substituir o State.
func (e *Engine) commitLocal() {
	e.refreshSeq.Add(1)
	e.saveSnapshot()
}

// saveSnapshot persiste o State no cache local; falha é logada e
// engolida (cache best-effort, o sistema segue utilizável).
func (e *Engine) saveSnapshot() {
	if err := e.cache.Save(e.state.Snapshot()); err != nil {
		e.log.Warn().Err(err).Msg("falha ao gravar snapshot local")
	}
}

// normalizeText apara e converte para a forma canônica em caixa-alta.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

// isDomainErr separa erros de validação/estado (nunca enfileirados) de
// falhas de rede ou da autoridade (enfileiráveis).
func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrDuplicate)
}
