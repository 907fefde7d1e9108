package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	"github.com/juliasousa13/estoque-sync/internal/application/report"
)

// ReportHandler trata a emissão do relatório de movimentos em PDF.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler constrói o handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Movements gera o PDF do histórico no período ?from=&to= (RFC 3339 ou
// AAAA-MM-DD; ausente = aberto). Um to só com data cobre o dia inteiro.
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	from, err := parsePeriod(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
	}
	to, err := parsePeriod(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
	}
	pdf, err := h.uc.Generate(c.Context(), from, to)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimentos.pdf"`)
	return c.Send(pdf)
}

func parsePeriod(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	// Limite superior só com data fecha no fim do dia, senão os
	// movimentos daquele dia ficariam fora do recorte.
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
