package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliasousa13/estoque-sync/internal/application/analytics"
	"github.com/juliasousa13/estoque-sync/internal/application/report"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	apphttp "github.com/juliasousa13/estoque-sync/internal/interfaces/http"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dublês mínimos. O motor roda "offline": toda mutação vai para a fila,
// então os handlers são exercitados sem nenhuma porta de autoridade.
// ──────────────────────────────────────────────────────────────────────────────

type memQueue struct {
	actions []entity.PendingAction
}

func (q *memQueue) Enqueue(kind string, payload any) (entity.PendingAction, error) {
	raw, _ := json.Marshal(payload)
	a := entity.PendingAction{ID: kind, Kind: kind, Payload: raw, CreatedAt: time.Now()}
	q.actions = append(q.actions, a)
	return a, nil
}
func (q *memQueue) List() ([]entity.PendingAction, error) { return q.actions, nil }
func (q *memQueue) Remove(string) error                   { return nil }
func (q *memQueue) Clear() error                          { q.actions = nil; return nil }

type memCache struct{ snap appsync.Snapshot }

func (c *memCache) Save(snap appsync.Snapshot) error { c.snap = snap; return nil }
func (c *memCache) Load() appsync.Snapshot           { return c.snap }

type memSessionStore struct{ sess *entity.Session }

func (s *memSessionStore) Save(sess entity.Session) error { s.sess = &sess; return nil }
func (s *memSessionStore) Load() *entity.Session          { return s.sess }
func (s *memSessionStore) Clear() error                   { s.sess = nil; return nil }

// memGenerator guarda o último período pedido em vez de renderizar.
type memGenerator struct{ from, to time.Time }

func (g *memGenerator) GenerateMovementsPDF(_ context.Context, from, to time.Time, _ []entity.MovementLog) ([]byte, error) {
	g.from, g.to = from, to
	return []byte("%PDF-fake"), nil
}

var _ report.MovementsPDFGenerator = (*memGenerator)(nil)

type fixture struct {
	app    *fiber.App
	engine *appsync.Engine
	store  *memSessionStore
	gen    *memGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine := appsync.NewEngine(appsync.EngineDeps{
		Cache:  &memCache{},
		Queue:  &memQueue{},
		Online: func() bool { return false },
		Log:    logger.Nop(),
	})
	store := &memSessionStore{}
	sessionUC := session.NewUseCase(engine.State(), store, logger.Nop())
	engine.OnUserApplied(sessionUC.RefreshIfActive)

	gen := &memGenerator{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:      engine,
		SessionUC:   sessionUC,
		DashboardUC: analytics.NewDashboardUseCase(engine),
		ReportUC:    report.NewUseCase(engine.State(), gen),
	})
	return &fixture{app: app, engine: engine, store: store, gen: gen}
}

func (f *fixture) login(t *testing.T, badge, name, role string) {
	t.Helper()
	f.engine.State().UpsertUser(entity.UserProfile{Badge: badge, Name: name, Role: role})
	resp := f.do(t, http.MethodPost, "/api/session/login", map[string]string{"badge": badge})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "corpo: %s", raw)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────

func TestSessionEndpoints(t *testing.T) {
	f := newFixture(t)

	// Sem perfis espelhados, o crachá não resolve.
	resp := f.do(t, http.MethodPost, "/api/session/login", map[string]string{"badge": "1001"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Sem sessão ativa.
	resp = f.do(t, http.MethodGet, "/api/session/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	f.login(t, "1001", "MARIA", entity.RoleSupervisor)

	resp = f.do(t, http.MethodGet, "/api/session/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[entity.Session](t, resp)
	assert.Equal(t, "MARIA", sess.Name)

	resp = f.do(t, http.MethodDelete, "/api/session/", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMovementCreate_ExigeSessao(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/api/movements/", map[string]any{
		"itemId": "x", "type": "OUT", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovementCreate_FluxoCompleto(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1001", "MARIA", entity.RoleAlmoxarife)
	f.engine.State().UpsertItem(entity.InventoryItem{
		ID: "item-1", Name: "PARAFUSO M6", Unit: "UN",
		CurrentStock: 10, MinStock: 3, Department: "ALMOXARIFADO", IsActive: true,
	})

	resp := f.do(t, http.MethodPost, "/api/movements/", map[string]any{
		"itemId": "item-1", "type": "OUT", "quantity": 3, "reason": "OBRA 12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[appsync.MutationResult](t, resp)
	assert.Equal(t, appsync.OutcomeQueued, out.Outcome, "motor offline enfileira")
	assert.Equal(t, 7, out.Item.CurrentStock)

	// Projeção negativa vira 422.
	resp = f.do(t, http.MethodPost, "/api/movements/", map[string]any{
		"itemId": "item-1", "type": "OUT", "quantity": 100,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Item inexistente vira 404.
	resp = f.do(t, http.MethodPost, "/api/movements/", map[string]any{
		"itemId": "ghost", "type": "OUT", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItemEndpoints(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1001", "MARIA", entity.RoleAlmoxarife)

	resp := f.do(t, http.MethodPost, "/api/items/", map[string]any{
		"name": "parafuso m6", "unit": "un", "currentStock": 12, "minStock": 3,
		"department": "almoxarifado",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[appsync.MutationResult](t, resp)
	require.NotNil(t, created.Item)
	assert.Equal(t, "PARAFUSO M6", created.Item.Name)

	resp = f.do(t, http.MethodGet, "/api/items/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]entity.InventoryItem](t, resp)
	require.Len(t, items, 1)

	resp = f.do(t, http.MethodGet, "/api/items/"+created.Item.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/items/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Validação: nome vazio.
	resp = f.do(t, http.MethodPost, "/api/items/", map[string]any{
		"name": "  ", "unit": "un", "department": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSyncStatusEndpoint(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/sync/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[appsync.Status](t, resp)
	assert.False(t, st.Online)
	assert.Equal(t, 0, st.PendingCount)
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	f := newFixture(t)
	f.engine.State().UpsertItem(entity.InventoryItem{
		ID: "a", Name: "A", Department: "X", CurrentStock: 1, MinStock: 5, IsActive: true,
	})

	resp := f.do(t, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[struct {
		TotalItems    int `json:"totalItems"`
		CriticalItems int `json:"criticalItems"`
	}](t, resp)
	assert.Equal(t, 1, got.TotalItems)
	assert.Equal(t, 1, got.CriticalItems)
}

func TestReportEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/reports/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = f.do(t, http.MethodGet, "/api/reports/movements?from=2026-08-12&to=2026-08-10", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/reports/movements?from=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoint_PeriodoSoComDataCobreODiaInteiro(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/reports/movements?from=2026-08-10&to=2026-08-10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, f.gen.from.Equal(time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.gen.to.Equal(time.Date(2026, time.August, 10, 23, 59, 59, 999999999, time.UTC)),
		"um to só com data fecha no fim do dia, incluindo os movimentos daquele dia")

	// Um to em RFC 3339 é usado exatamente como veio.
	resp = f.do(t, http.MethodGet, "/api/reports/movements?to=2026-08-10T12:00:00Z", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, f.gen.to.Equal(time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)))
}
