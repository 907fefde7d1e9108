package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// MovementHandler trata as requisições HTTP de movimentos de estoque.
type MovementHandler struct {
	engine  *sync.Engine
	session *session.UseCase
}

// NewMovementHandler constrói o handler.
func NewMovementHandler(engine *sync.Engine, session *session.UseCase) *MovementHandler {
	return &MovementHandler{engine: engine, session: session}
}

// List devolve o histórico recente, mais novo primeiro.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.State().Movements())
}

// Create registra um movimento IN/OUT atribuído ao ator da sessão.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	sess, err := h.session.Current()
	if err != nil {
		return domainError(c, err)
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.engine.ApplyStockMovement(c.Context(), sync.MovementInput{
		ItemID:     in.ItemID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		ActorBadge: sess.Badge,
		ActorName:  sess.Name,
		Reason:     in.Reason,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
