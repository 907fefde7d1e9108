package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/juliasousa13/estoque-sync/internal/application/analytics"
	"github.com/juliasousa13/estoque-sync/internal/application/connectivity"
	"github.com/juliasousa13/estoque-sync/internal/application/report"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
	"github.com/juliasousa13/estoque-sync/internal/infrastructure/localstore"
	"github.com/juliasousa13/estoque-sync/internal/infrastructure/netprobe"
	infrapdf "github.com/juliasousa13/estoque-sync/internal/infrastructure/pdf"
	"github.com/juliasousa13/estoque-sync/internal/infrastructure/postgres"
	httpRouter "github.com/juliasousa13/estoque-sync/internal/interfaces/http"
	"github.com/juliasousa13/estoque-sync/pkg/config"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	store, err := localstore.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir cache local")
	}
	defer store.Close()

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	prober := netprobe.NewPoolProber(pool)
	monitor := connectivity.NewMonitor(prober, cfg.Sync.ProbeInterval, cfg.Sync.ProbeTimeout, log)

	engine := appsync.NewEngine(appsync.EngineDeps{
		Items:         itemRepo,
		Movements:     movementRepo,
		Users:         userRepo,
		Departments:   departmentRepo,
		Tx:            txRunner,
		Cache:         localstore.NewSnapshotStore(store, log),
		Queue:         localstore.NewActionQueue(store),
		Online:        monitor.Online,
		MovementLimit: cfg.Sync.MovementLimit,
		Log:           log,
	})

	sessionUC := session.NewUseCase(engine.State(), localstore.NewSessionStore(store), log)
	engine.OnUserApplied(sessionUC.RefreshIfActive)
	dashboardUC := analytics.NewDashboardUseCase(engine)
	reportUC := report.NewUseCase(engine.State(), infrapdf.NewMarotoReportGenerator())

	// Borda de conectividade: drena a fila e dispara refresh ao reconectar.
	monitor.Subscribe(func(online bool) {
		go engine.HandleConnectivity(ctx, online)
	})
	go monitor.Run(ctx)

	// Carga inicial: autoridade primeiro, cache local como último recurso.
	if _, err := engine.Refresh(ctx, true); err != nil {
		log.Warn().Err(err).Msg("carga inicial da autoridade falhou")
	}

	// Notificações de mudança da autoridade (LISTEN/NOTIFY).
	listener := postgres.NewChangeListener(pool, cfg.Sync.Channel, log)
	go func() {
		if err := listener.Listen(ctx, func(ch repository.Change) {
			engine.HandleChange(ctx, ch)
		}); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("listener de mudanças encerrou")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		SessionUC:   sessionUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API pronta")

	<-ctx.Done()
	log.Info().Msg("encerrando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown do servidor HTTP")
	}
}
