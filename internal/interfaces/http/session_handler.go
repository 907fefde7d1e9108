package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/session"
)

// SessionHandler trata login por crachá e a sessão ativa.
type SessionHandler struct {
	uc *session.UseCase
}

// NewSessionHandler constrói o handler.
func NewSessionHandler(uc *session.UseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Login abre a sessão para o crachá informado.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Badge == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "badge é obrigatório"})
	}
	sess, err := h.uc.Login(in.Badge)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(sess)
}

// Current devolve a sessão ativa.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	sess, err := h.uc.Current()
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(sess)
}

// Logout encerra a sessão ativa.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
