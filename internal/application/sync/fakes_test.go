package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dublês em memória da autoridade e do cache local. errNetwork simula a
// autoridade inacessível em qualquer operação.
// ──────────────────────────────────────────────────────────────────────────────

var errNetwork = errors.New("connection refused")

// fakeAuthority guarda as quatro coleções autoritativas num só lugar e
// implementa todas as portas de repositório sobre elas.
type fakeAuthority struct {
	mu       sync.Mutex
	items    map[string]entity.InventoryItem
	movs     []entity.MovementLog // mais novo primeiro
	users    map[string]entity.UserProfile
	depts    map[string]struct{}
	downErr  error // != nil: toda operação devolve este erro
	failNext int   // conta de operações a falhar antes de voltar ao normal

	// hold, se não nulo, bloqueia ListActive até ser fechado (prende um
	// ciclo de refresh em voo). Definir antes de iniciar goroutines.
	hold chan struct{}
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		items: make(map[string]entity.InventoryItem),
		users: make(map[string]entity.UserProfile),
		depts: make(map[string]struct{}),
	}
}

func (a *fakeAuthority) gate() error {
	if a.downErr != nil {
		return a.downErr
	}
	if a.failNext > 0 {
		a.failNext--
		return errNetwork
	}
	return nil
}

func (a *fakeAuthority) ListActive(_ context.Context) ([]entity.InventoryItem, error) {
	if a.hold != nil {
		<-a.hold
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return nil, err
	}
	var out []entity.InventoryItem
	for _, it := range a.items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (a *fakeAuthority) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return nil, err
	}
	it, ok := a.items[id]
	if !ok || !it.IsActive {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (a *fakeAuthority) Create(_ context.Context, item *entity.InventoryItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	if _, ok := a.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	a.items[item.ID] = *item
	return nil
}

func (a *fakeAuthority) Update(_ context.Context, item *entity.InventoryItem, expectedRevision time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	cur, ok := a.items[item.ID]
	if !ok || !cur.IsActive {
		return domain.ErrNotFound
	}
	if !cur.LastUpdated.Equal(expectedRevision) {
		return domain.ErrConflict
	}
	a.items[item.ID] = *item
	return nil
}

func (a *fakeAuthority) UpdateStock(_ context.Context, id string, newStock int, actor string, at time.Time, expectedRevision time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	cur, ok := a.items[id]
	if !ok || !cur.IsActive {
		return domain.ErrNotFound
	}
	if !cur.LastUpdated.Equal(expectedRevision) {
		return domain.ErrConflict
	}
	cur.CurrentStock = newStock
	cur.LastUpdated = at
	cur.LastUpdatedBy = actor
	a.items[id] = cur
	return nil
}

func (a *fakeAuthority) SoftDeleteAll(_ context.Context, ids []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	for _, id := range ids {
		if cur, ok := a.items[id]; ok {
			cur.IsActive = false
			a.items[id] = cur
		}
	}
	return nil
}

func (a *fakeAuthority) ListRecent(_ context.Context, limit int) ([]entity.MovementLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return nil, err
	}
	if len(a.movs) > limit {
		return append([]entity.MovementLog(nil), a.movs[:limit]...), nil
	}
	return append([]entity.MovementLog(nil), a.movs...), nil
}

func (a *fakeAuthority) Append(_ context.Context, mov *entity.MovementLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	for _, m := range a.movs {
		if m.ID == mov.ID {
			return domain.ErrDuplicate
		}
	}
	a.movs = append([]entity.MovementLog{*mov}, a.movs...)
	return nil
}

func (a *fakeAuthority) List(_ context.Context) ([]entity.UserProfile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return nil, err
	}
	var out []entity.UserProfile
	for _, u := range a.users {
		out = append(out, u)
	}
	return out, nil
}

func (a *fakeAuthority) Upsert(_ context.Context, profile *entity.UserProfile) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	a.users[profile.Badge] = *profile
	return nil
}

func (a *fakeAuthority) ListNames(_ context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return nil, err
	}
	var out []string
	for name := range a.depts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (a *fakeAuthority) Add(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	if _, ok := a.depts[name]; ok {
		return domain.ErrDuplicate
	}
	a.depts[name] = struct{}{}
	return nil
}

func (a *fakeAuthority) Delete(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.gate(); err != nil {
		return err
	}
	if _, ok := a.depts[name]; !ok {
		return domain.ErrNotFound
	}
	delete(a.depts, name)
	return nil
}

func (a *fakeAuthority) movementCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.movs)
}

func (a *fakeAuthority) item(id string) (entity.InventoryItem, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	it, ok := a.items[id]
	return it, ok
}

func (a *fakeAuthority) setDown(down bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if down {
		a.downErr = errNetwork
	} else {
		a.downErr = nil
	}
}

// fakeTxRunner passa os repositórios do próprio fakeAuthority; a
// "transação" é o mutex interno das operações.
type fakeTxRunner struct {
	auth *fakeAuthority
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	users repository.UserRepository,
	departments repository.DepartmentRepository,
) error) error {
	return fn(r.auth, r.auth, r.auth, r.auth)
}

// fakeSnapshotStore cache local em memória.
type fakeSnapshotStore struct {
	mu   sync.Mutex
	snap appsync.Snapshot
}

func (s *fakeSnapshotStore) Save(snap appsync.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

func (s *fakeSnapshotStore) Load() appsync.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// fakeQueue fila pendente em memória, ordenada por inserção.
type fakeQueue struct {
	mu      sync.Mutex
	seq     int
	actions []entity.PendingAction
}

func (q *fakeQueue) Enqueue(kind string, payload any) (entity.PendingAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	raw, err := json.Marshal(payload)
	if err != nil {
		return entity.PendingAction{}, err
	}
	q.seq++
	action := entity.PendingAction{
		ID:        fmt.Sprintf("act-%04d", q.seq),
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	q.actions = append(q.actions, action)
	return action, nil
}

func (q *fakeQueue) List() ([]entity.PendingAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]entity.PendingAction(nil), q.actions...), nil
}

func (q *fakeQueue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, a := range q.actions {
		if a.ID == id {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (q *fakeQueue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = nil
	return nil
}

func (q *fakeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// harness reúne o motor e seus dublês.
type harness struct {
	engine *appsync.Engine
	auth   *fakeAuthority
	cache  *fakeSnapshotStore
	queue  *fakeQueue
	online bool
	mu     sync.Mutex
}

func (h *harness) setOnline(online bool) {
	h.mu.Lock()
	h.online = online
	h.mu.Unlock()
	h.auth.setDown(!online)
}

func (h *harness) isOnline() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

func newHarness() *harness {
	h := &harness{
		auth:   newFakeAuthority(),
		cache:  &fakeSnapshotStore{},
		queue:  &fakeQueue{},
		online: true,
	}
	h.engine = appsync.NewEngine(appsync.EngineDeps{
		Items:         h.auth,
		Movements:     h.auth,
		Users:         h.auth,
		Departments:   h.auth,
		Tx:            &fakeTxRunner{auth: h.auth},
		Cache:         h.cache,
		Queue:         h.queue,
		Online:        h.isOnline,
		MovementLimit: 500,
		Log:           logger.Nop(),
	})
	return h
}

// waitFor espera a condição virar verdadeira dentro de um prazo curto.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// seedItem insere um item direto na autoridade e no State (como se um
// refresh já tivesse rodado).
func (h *harness) seedItem(id, name string, stock, min int) entity.InventoryItem {
	item := entity.InventoryItem{
		ID:           id,
		Name:         name,
		Unit:         "UN",
		CurrentStock: stock,
		MinStock:     min,
		Department:   "ALMOXARIFADO",
		LastUpdated:  time.Now().UTC().Add(-time.Hour),
		IsActive:     true,
	}
	h.auth.mu.Lock()
	h.auth.items[id] = item
	h.auth.mu.Unlock()
	h.engine.State().UpsertItem(item)
	return item
}

func (h *harness) seedUser(badge, name, role string) entity.UserProfile {
	profile := entity.UserProfile{Badge: badge, Name: name, Role: role, CreatedAt: time.Now().UTC()}
	h.auth.mu.Lock()
	h.auth.users[badge] = profile
	h.auth.mu.Unlock()
	h.engine.State().UpsertUser(profile)
	return profile
}
