// Package pdf implementa a geração do relatório de movimentações com
// Maroto v2.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Relatório de Movimentações + período               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Data | Item | Tipo | Qtde | Responsável | Motivo   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: total de registros + data de emissão               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/juliasousa13/estoque-sync/internal/application/report"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ report.MovementsPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.MovementsPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator constrói o gerador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMovementsPDF gera o PDF e devolve os bytes.
func (g *MarotoReportGenerator) GenerateMovementsPDF(
	_ context.Context,
	from, to time.Time,
	movs []entity.MovementLog,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Movimentações", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, mov := range movs {
		m.AddRows(movementRow(mov))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(movs)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

func headerRow(from, to time.Time) core.Row {
	period := "Todo o histórico espelhado"
	switch {
	case !from.IsZero() && !to.IsZero():
		period = fmt.Sprintf("Período: %s a %s", from.Format("02/01/2006"), to.Format("02/01/2006"))
	case !from.IsZero():
		period = "A partir de " + from.Format("02/01/2006")
	case !to.IsZero():
		period = "Até " + to.Format("02/01/2006")
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("RELATÓRIO DE MOVIMENTAÇÕES DE ESTOQUE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary}
	return row.New(6).Add(
		col.New(2).Add(text.New("Data", header)),
		col.New(3).Add(text.New("Item", header)),
		col.New(1).Add(text.New("Tipo", header)),
		col.New(1).Add(text.New("Qtde", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right})),
		col.New(2).Add(text.New("Responsável", header)),
		col.New(3).Add(text.New("Motivo", header)),
	)
}

func movementRow(mov entity.MovementLog) core.Row {
	cell := props.Text{Size: 8}
	return row.New(5).Add(
		col.New(2).Add(text.New(mov.CreatedAt.Format("02/01/2006 15:04"), cell)),
		col.New(3).Add(text.New(mov.ItemName, cell)),
		col.New(1).Add(text.New(mov.Type, cell)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", mov.Quantity), props.Text{Size: 8, Align: align.Right})),
		col.New(2).Add(text.New(mov.ActorName, cell)),
		col.New(3).Add(text.New(mov.Reason, cell)),
	)
}

func footerRow(total int) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Total de registros: %d", total), props.Text{Size: 8, Top: 2})),
		col.New(6).Add(text.New(
			"Emitido em "+time.Now().Format("02/01/2006 15:04"),
			props.Text{Size: 8, Top: 2, Align: align.Right, Color: colorGray},
		)),
	)
}
