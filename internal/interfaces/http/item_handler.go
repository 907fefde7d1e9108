package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// ItemHandler trata as requisições HTTP de itens de estoque. Leituras
// servem direto da projeção em memória; mutações passam pelo motor.
type ItemHandler struct {
	engine  *sync.Engine
	session *session.UseCase
}

// NewItemHandler constrói o handler.
func NewItemHandler(engine *sync.Engine, session *session.UseCase) *ItemHandler {
	return &ItemHandler{engine: engine, session: session}
}

// List devolve os itens ativos ordenados por nome.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.State().Items())
}

// Critical devolve só os itens com estoque no mínimo ou abaixo.
func (h *ItemHandler) Critical(c *fiber.Ctx) error {
	return c.JSON(h.engine.State().CriticalItems())
}

// GetByID devolve um item pela projeção local.
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	item, ok := h.engine.State().ItemByID(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item não encontrado"})
	}
	return c.JSON(item)
}

// Create registra um item novo atribuído ao ator da sessão.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	sess, err := h.session.Current()
	if err != nil {
		return domainError(c, err)
	}
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.engine.UpsertItem(c.Context(), sync.ItemInput{
		Name:         in.Name,
		Unit:         in.Unit,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		Department:   in.Department,
		Location:     in.Location,
		PhotoURL:     in.PhotoURL,
		ActorBadge:   sess.Badge,
		ActorName:    sess.Name,
	}, false)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edita um item existente.
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	sess, err := h.session.Current()
	if err != nil {
		return domainError(c, err)
	}
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.engine.UpsertItem(c.Context(), sync.ItemInput{
		ID:           id,
		Name:         in.Name,
		Unit:         in.Unit,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		Department:   in.Department,
		Location:     in.Location,
		PhotoURL:     in.PhotoURL,
		ActorBadge:   sess.Badge,
		ActorName:    sess.Name,
	}, true)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// BatchDelete desativa itens em lote (soft delete; o histórico fica).
func (h *ItemHandler) BatchDelete(c *fiber.Ctx) error {
	if _, err := h.session.Current(); err != nil {
		return domainError(c, err)
	}
	var in dto.BatchDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids é obrigatório"})
	}
	out, err := h.engine.BatchSoftDelete(c.Context(), in.IDs)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
