// Package analytics contém o caso de uso do resumo do painel
// (cards de totais, itens críticos e movimentos do dia).
package analytics

import (
	"time"

	"github.com/juliasousa13/estoque-sync/internal/application/dto"
	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// DashboardUseCase gera o resumo do painel a partir das projeções do
// State; funciona idêntico online e offline, sobre o último espelho.
type DashboardUseCase struct {
	engine *appsync.Engine
}

// NewDashboardUseCase constrói o caso de uso.
func NewDashboardUseCase(engine *appsync.Engine) *DashboardUseCase {
	return &DashboardUseCase{engine: engine}
}

// GetSummary monta o DashboardSummaryDTO do momento.
func (uc *DashboardUseCase) GetSummary() *dto.DashboardSummaryDTO {
	state := uc.engine.State()
	status := uc.engine.Status()

	items := state.Items()
	byDept := make(map[string]int)
	critical := 0
	for _, it := range items {
		byDept[it.Department]++
		if it.IsCritical() {
			critical++
		}
	}

	// Hoje: 00:00 local até agora.
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	movsToday := make(map[string]int)
	for _, m := range state.Movements() {
		if m.CreatedAt.Before(todayStart) {
			// Movimentos vêm ordenados do mais novo ao mais antigo.
			break
		}
		movsToday[m.Type]++
	}

	return &dto.DashboardSummaryDTO{
		TotalItems:        len(items),
		CriticalItems:     critical,
		ItemsByDepartment: byDept,
		MovementsToday:    movsToday,
		PendingActions:    status.PendingCount,
		Online:            status.Online,
		LastSyncAt:        status.LastSyncAt,
	}
}
