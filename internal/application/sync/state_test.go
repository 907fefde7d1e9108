package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

func TestState_ItensOrdenadosPorNome(t *testing.T) {
	s := appsync.NewState()
	s.UpsertItem(entity.InventoryItem{ID: "b", Name: "PORCA", IsActive: true})
	s.UpsertItem(entity.InventoryItem{ID: "a", Name: "ALICATE", IsActive: true})
	s.UpsertItem(entity.InventoryItem{ID: "c", Name: "MARTELO", IsActive: true})

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"ALICATE", "MARTELO", "PORCA"},
		[]string{items[0].Name, items[1].Name, items[2].Name})
}

func TestState_CopiasNaoVazamEstadoInterno(t *testing.T) {
	s := appsync.NewState()
	s.UpsertItem(entity.InventoryItem{ID: "a", Name: "ALICATE", CurrentStock: 5, IsActive: true})

	items := s.Items()
	items[0].CurrentStock = 999

	cur, ok := s.ItemByID("a")
	require.True(t, ok)
	assert.Equal(t, 5, cur.CurrentStock, "mutação na cópia devolvida não afeta o contêiner")
}

func TestState_PrependMovementRespeitaLimite(t *testing.T) {
	s := appsync.NewState()
	for i := 0; i < 5; i++ {
		s.PrependMovement(entity.MovementLog{
			ID:        string(rune('a' + i)),
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}, 3)
	}

	movs := s.Movements()
	require.Len(t, movs, 3, "a coleção espelha só os N mais recentes")
	assert.Equal(t, "e", movs[0].ID, "mais novo primeiro")
}

func TestState_ReplaceAllSubstituiTudo(t *testing.T) {
	s := appsync.NewState()
	s.UpsertItem(entity.InventoryItem{ID: "velho", Name: "VELHO", IsActive: true})
	s.AddDepartment("ANTIGO")

	now := time.Now().UTC()
	s.ReplaceAll(appsync.Snapshot{
		Items:       []entity.InventoryItem{{ID: "novo", Name: "NOVO", IsActive: true}},
		Departments: []string{"NOVO DEPTO"},
	}, now)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "novo", items[0].ID)
	assert.Equal(t, []string{"NOVO DEPTO"}, s.Departments())
	assert.Equal(t, now, s.LastSyncAt())

	_, ok := s.ItemByID("velho")
	assert.False(t, ok)
}

func TestState_RemoveItemsEDepartamentos(t *testing.T) {
	s := appsync.NewState()
	s.UpsertItem(entity.InventoryItem{ID: "a", Name: "A", IsActive: true})
	s.UpsertItem(entity.InventoryItem{ID: "b", Name: "B", IsActive: true})
	s.RemoveItems([]string{"a"})

	_, ok := s.ItemByID("a")
	assert.False(t, ok)
	_, ok = s.ItemByID("b")
	assert.True(t, ok)

	s.AddDepartment("MANUTENÇÃO")
	s.AddDepartment("ALMOXARIFADO")
	assert.Equal(t, []string{"ALMOXARIFADO", "MANUTENÇÃO"}, s.Departments(), "ordem alfabética")
	s.RemoveDepartment("ALMOXARIFADO")
	assert.Equal(t, []string{"MANUTENÇÃO"}, s.Departments())
}

func TestState_UserByBadge(t *testing.T) {
	s := appsync.NewState()
	s.UpsertUser(entity.UserProfile{Badge: "1001", Name: "MARIA", Role: entity.RoleAlmoxarife})

	u, ok := s.UserByBadge("1001")
	require.True(t, ok)
	assert.Equal(t, "MARIA", u.Name)

	_, ok = s.UserByBadge("9999")
	assert.False(t, ok)
}
