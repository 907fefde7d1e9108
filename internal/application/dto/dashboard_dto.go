package dto

import "time"

// DashboardSummaryDTO resumo dos cards do painel, calculado sobre as
// projeções em memória (nenhuma consulta à autoridade).
type DashboardSummaryDTO struct {
	TotalItems        int            `json:"totalItems"`
	CriticalItems     int            `json:"criticalItems"`
	ItemsByDepartment map[string]int `json:"itemsByDepartment"`
	MovementsToday    map[string]int `json:"movementsToday"` // por tipo (IN, OUT, CREATE, EDIT)
	PendingActions    int            `json:"pendingActions"`
	Online            bool           `json:"online"`
	LastSyncAt        time.Time      `json:"lastSyncAt"`
}
