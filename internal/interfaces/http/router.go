package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/analytics"
	"github.com/juliasousa13/estoque-sync/internal/application/report"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	Engine      *sync.Engine
	SessionUC   *session.UseCase
	DashboardUC *analytics.DashboardUseCase
	ReportUC    *report.UseCase
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sessão por crachá (sem senha; o controle de acesso é por papel)
	sessionGroup := api.Group("/session")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessionGroup.Post("/login", sessionHandler.Login)
	sessionGroup.Get("/", sessionHandler.Current)
	sessionGroup.Delete("/", sessionHandler.Logout)

	// Itens
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Engine, deps.SessionUC)
	items.Get("/", itemHandler.List)
	items.Get("/critical", itemHandler.Critical)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", itemHandler.Create)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/", itemHandler.BatchDelete)

	// Movimentos (histórico imutável)
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.Engine, deps.SessionUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)

	// Usuários
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.Engine)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Upsert)

	// Departamentos
	departments := api.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.Engine)
	departments.Get("/", departmentHandler.List)
	departments.Post("/", departmentHandler.Create)
	departments.Delete("/:name", departmentHandler.Delete)

	// Ciclo de sincronização
	syncGroup := api.Group("/sync")
	syncHandler := NewSyncHandler(deps.Engine)
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Post("/refresh", syncHandler.Refresh)
	syncGroup.Post("/drain", syncHandler.Drain)

	// Painel e relatórios
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.Summary)
	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/reports/movements", reportHandler.Movements)

	// Eventos em tempo real para a UI
	wsHandler := NewWSHandler(deps.Engine.Events())
	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws/events", websocket.New(wsHandler.Stream))
}
