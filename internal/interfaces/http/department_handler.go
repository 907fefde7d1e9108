package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// DepartmentHandler trata as requisições HTTP de departamentos.
type DepartmentHandler struct {
	engine *sync.Engine
}

// NewDepartmentHandler constrói o handler.
func NewDepartmentHandler(engine *sync.Engine) *DepartmentHandler {
	return &DepartmentHandler{engine: engine}
}

// List devolve os nomes de departamento em ordem alfabética.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.State().Departments())
}

// Create adiciona um departamento.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var in dto.DepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.engine.AddDepartment(c.Context(), in.Name)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete remove um departamento pelo nome.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NAME", Message: "name é obrigatório"})
	}
	out, err := h.engine.DeleteDepartment(c.Context(), name)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
