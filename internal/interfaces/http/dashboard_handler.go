package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/analytics"
)

// DashboardHandler trata o resumo do painel.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler constrói o handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary devolve os agregados calculados sobre a projeção local.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetSummary())
}
