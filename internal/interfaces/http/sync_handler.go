package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// SyncHandler expõe o estado do ciclo de sincronização e o refresh
// manual (botão "atualizar" da UI).
type SyncHandler struct {
	engine *sync.Engine
}

// NewSyncHandler constrói o handler.
func NewSyncHandler(engine *sync.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

// Status devolve online/syncing/lastSyncAt/pendingCount.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.engine.Status())
}

// Refresh dispara um ciclo completo de releitura da autoridade; o motor
// drena a fila pendente antes do fetch. Chamadas concorrentes
// compartilham o mesmo ciclo em voo.
func (h *SyncHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.engine.Refresh(c.Context(), true)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Drain força o replay imediato da fila pendente.
func (h *SyncHandler) Drain(c *fiber.Ctx) error {
	return c.JSON(h.engine.Drain(c.Context()))
}
