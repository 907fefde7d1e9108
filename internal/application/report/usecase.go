// Package report gera o relatório tabular de movimentações: consumidor
// read-only da coleção de movimentos, fora do ciclo de sincronização.
package report

import (
	"context"
	"time"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// MovementsPDFGenerator porta do gerador do documento.
type MovementsPDFGenerator interface {
	GenerateMovementsPDF(ctx context.Context, from, to time.Time, movs []entity.MovementLog) ([]byte, error)
}

// UseCase monta o relatório de movimentos por período.
type UseCase struct {
	state     *appsync.State
	generator MovementsPDFGenerator
}

// NewUseCase constrói o caso de uso.
func NewUseCase(state *appsync.State, generator MovementsPDFGenerator) *UseCase {
	return &UseCase{state: state, generator: generator}
}

// Generate filtra os movimentos espelhados pelo período (limites zero
// deixam a ponta aberta) e devolve os bytes do PDF.
func (uc *UseCase) Generate(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	var filtered []entity.MovementLog
	for _, m := range uc.state.Movements() {
		if !from.IsZero() && m.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && m.CreatedAt.After(to) {
			continue
		}
		filtered = append(filtered, m)
	}

	return uc.generator.GenerateMovementsPDF(ctx, from, to, filtered)
}
