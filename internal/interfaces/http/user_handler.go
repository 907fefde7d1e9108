package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// UserHandler trata as requisições HTTP de perfis de usuário.
type UserHandler struct {
	engine *sync.Engine
}

// NewUserHandler constrói o handler.
func NewUserHandler(engine *sync.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// List devolve os perfis conhecidos.
func (h *UserHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.State().Users())
}

// Upsert cria ou atualiza um perfil pelo crachá.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Badge == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "badge e name são obrigatórios"})
	}
	out, err := h.engine.UpsertUser(c.Context(), entity.UserProfile{
		Badge:    in.Badge,
		Name:     in.Name,
		Role:     in.Role,
		PhotoURL: in.PhotoURL,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
