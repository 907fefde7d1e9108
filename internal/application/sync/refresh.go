package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
)

// RefreshResult resultado de um refresh completo.
type RefreshResult struct {
	ItemCount     int       `json:"itemCount"`
	MovementCount int       `json:"movementCount"`
	UserCount     int       `json:"userCount"`
	DeptCount     int       `json:"deptCount"`
	SyncedAt      time.Time `json:"syncedAt"`
	Stale         bool      `json:"stale"` // resposta descartada pela guarda de sequência
}

// Refresh drena a fila pendente e então busca em paralelo o estado
// completo da autoridade (itens ativos, últimos N movimentos, usuários,
// departamentos); em sucesso, substitui o State e o snapshot local e
// grava o timestamp da última sincronização. O drain vem primeiro em
// qualquer gatilho (manual, borda de reconexão, notificação): o fetch
// substitui o State inteiro e não pode reverter mutações enfileiradas
// ainda não enviadas. Qualquer sub-busca falhando faz o refresh inteiro
// falhar com o State intacto; o snapshot anterior só entra como
// fallback se o State estiver vazio (primeira carga).
//
// Chamadas concorrentes colapsam numa única em voo (singleflight) e uma
// resposta cuja sequência já não é a mais recente (uma escrita local
// aplicou durante o fetch) é descartada em vez de sobrescrever estado
// mais novo.
func (e *Engine) Refresh(ctx context.Context, showLoading bool) (*RefreshResult, error) {
	v, err, _ := e.sf.Do("refresh", func() (any, error) {
		e.Drain(ctx)
		return e.doRefresh(ctx, showLoading)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RefreshResult), nil
}

func (e *Engine) doRefresh(ctx context.Context, showLoading bool) (*RefreshResult, error) {
	seq := e.refreshSeq.Add(1)

	e.syncing.Store(true)
	defer e.syncing.Store(false)

	// Fan-out das quatro buscas, uma goroutine por coleção.
	type itemsResult struct {
		items []entity.InventoryItem
		err   error
	}
	type movsResult struct {
		movs []entity.MovementLog
		err  error
	}
	type usersResult struct {
		users []entity.UserProfile
		err   error
	}
	type deptsResult struct {
		names []string
		err   error
	}

	itemsCh := make(chan itemsResult, 1)
	movsCh := make(chan movsResult, 1)
	usersCh := make(chan usersResult, 1)
	deptsCh := make(chan deptsResult, 1)

	go func() {
		items, err := e.items.ListActive(ctx)
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		movs, err := e.movements.ListRecent(ctx, e.limit)
		movsCh <- movsResult{movs, err}
	}()
	go func() {
		users, err := e.users.List(ctx)
		usersCh <- usersResult{users, err}
	}()
	go func() {
		names, err := e.departments.ListNames(ctx)
		deptsCh <- deptsResult{names, err}
	}()

	items := <-itemsCh
	movs := <-movsCh
	users := <-usersCh
	depts := <-deptsCh

	if err := firstErr(items.err, movs.err, users.err, depts.err); err != nil {
		e.fallbackToCache()
		e.events.Publish(Event{Type: EventRefreshFailed, Detail: map[string]any{
			"error": err.Error(), "showLoading": showLoading,
		}})
		return nil, fmt.Errorf("refresh: %w", err)
	}

	snap := Snapshot{
		Items:       items.items,
		Movements:   movs.movs,
		Users:       users.users,
		Departments: depts.names,
	}
	now := time.Now().UTC()

	// Guarda de sequência: se uma escrita local entrou no State durante
	// o fetch, esta resposta foi buscada antes dela e não pode
	// sobrescrever o State.
	if seq != e.refreshSeq.Load() || !e.advanceApplied(seq) {
		e.log.Debug().Uint64("seq", seq).Msg("refresh obsoleto descartado")
		return &RefreshResult{Stale: true}, nil
	}

	e.state.ReplaceAll(snap, now)
	e.saveSnapshot()
	e.events.Publish(Event{Type: EventRefreshOK, Detail: map[string]any{
		"items": len(snap.Items), "movements": len(snap.Movements), "showLoading": showLoading,
	}})
	e.log.Info().
		Int("items", len(snap.Items)).
		Int("movements", len(snap.Movements)).
		Int("users", len(snap.Users)).
		Int("departments", len(snap.Departments)).
		Msg("refresh completo aplicado")

	return &RefreshResult{
		ItemCount:     len(snap.Items),
		MovementCount: len(snap.Movements),
		UserCount:     len(snap.Users),
		DeptCount:     len(snap.Departments),
		SyncedAt:      now,
	}, nil
}

// advanceApplied avança a sequência aplicada se seq ainda for a mais
// recente; devolve false quando outra resposta já a ultrapassou.
func (e *Engine) advanceApplied(seq uint64) bool {
	for {
		cur := e.appliedSeq.Load()
		if seq <= cur {
			return false
		}
		if e.appliedSeq.CompareAndSwap(cur, seq) {
			return true
		}
	}
}

// fallbackToCache carrega o snapshot local no State apenas na primeira
// carga (State vazio); um refresh falhado nunca limpa estado já carregado.
func (e *Engine) fallbackToCache() {
	if !e.state.IsEmpty() {
		return
	}
	snap := e.cache.Load()
	if snap.IsEmpty() {
		return
	}
	e.state.ReplaceAll(snap, time.Time{})
	e.log.Info().
		Int("items", len(snap.Items)).
		Msg("autoridade indisponível na primeira carga, usando snapshot local")
}

// HandleChange trata uma notificação push da autoridade: sempre um
// gatilho de refresh completo, nunca um delta a aplicar. O Refresh
// drena as mutações pendentes antes do fetch.
func (e *Engine) HandleChange(ctx context.Context, ch repository.Change) {
	e.log.Debug().Str("table", ch.Table).Str("op", ch.Operation).Msg("notificação de mudança recebida")
	if _, err := e.Refresh(ctx, false); err != nil {
		e.log.Warn().Err(err).Msg("refresh disparado por notificação falhou")
	}
}

// HandleConnectivity trata uma borda do monitor: reconexão refaz o
// fetch completo, drenando a fila antes.
func (e *Engine) HandleConnectivity(ctx context.Context, online bool) {
	e.events.Publish(Event{Type: EventConnectivity, Detail: map[string]any{"online": online}})
	if !online {
		return
	}
	if _, err := e.Refresh(ctx, false); err != nil {
		e.log.Warn().Err(err).Msg("refresh pós-reconexão falhou")
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
