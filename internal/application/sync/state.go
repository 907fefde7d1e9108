package sync

import (
	"sort"
	"strings"
	gosync "sync"
	"time"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// State contêiner único do estado em memória espelhado da autoridade.
// Só o Engine escreve; consumidores recebem projeções copiadas, nunca
// referências às fatias internas.
type State struct {
	mu          gosync.RWMutex
	items       []entity.InventoryItem // ordenados por nome
	movements   []entity.MovementLog   // mais recentes primeiro
	users       []entity.UserProfile
	departments []string
	lastSyncAt  time.Time
}

// NewState constrói o contêiner vazio.
func NewState() *State {
	return &State{}
}

// ReplaceAll substitui as quatro coleções de uma vez (resultado de um
// refresh bem-sucedido ou fallback do snapshot local).
func (s *State) ReplaceAll(snap Snapshot, syncedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]entity.InventoryItem(nil), snap.Items...)
	s.movements = append([]entity.MovementLog(nil), snap.Movements...)
	s.users = append([]entity.UserProfile(nil), snap.Users...)
	s.departments = append([]string(nil), snap.Departments...)
	sortItems(s.items)
	if !syncedAt.IsZero() {
		s.lastSyncAt = syncedAt
	}
}

// Snapshot devolve uma cópia das quatro coleções para persistência.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:       append([]entity.InventoryItem(nil), s.items...),
		Movements:   append([]entity.MovementLog(nil), s.movements...),
		Users:       append([]entity.UserProfile(nil), s.users...),
		Departments: append([]string(nil), s.departments...),
	}
}

// IsEmpty indica se nada foi carregado ainda (primeira carga).
func (s *State) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0 && len(s.movements) == 0 &&
		len(s.users) == 0 && len(s.departments) == 0
}

// LastSyncAt devolve o timestamp do último refresh bem-sucedido.
func (s *State) LastSyncAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncAt
}

// Items devolve uma cópia dos itens ativos, ordenados por nome.
func (s *State) Items() []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.InventoryItem(nil), s.items...)
}

// ItemByID devolve o item por id, se presente.
func (s *State) ItemByID(id string) (entity.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return entity.InventoryItem{}, false
}

// CriticalItems devolve os itens com estoque no mínimo ou abaixo.
func (s *State) CriticalItems() []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.InventoryItem
	for _, it := range s.items {
		if it.IsCritical() {
			out = append(out, it)
		}
	}
	return out
}

// Movements devolve uma cópia dos movimentos, mais recentes primeiro.
func (s *State) Movements() []entity.MovementLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.MovementLog(nil), s.movements...)
}

// Users devolve uma cópia dos perfis.
func (s *State) Users() []entity.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.UserProfile(nil), s.users...)
}

// UserByBadge devolve o perfil pelo crachá, se presente.
func (s *State) UserByBadge(badge string) (entity.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Badge == badge {
			return u, true
		}
	}
	return entity.UserProfile{}, false
}

// Departments devolve uma cópia dos nomes de departamento.
func (s *State) Departments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.departments...)
}

// UpsertItem insere ou substitui um item, mantendo a ordenação.
func (s *State) UpsertItem(item entity.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == item.ID {
			s.items[i] = item
			sortItems(s.items)
			return
		}
	}
	s.items = append(s.items, item)
	sortItems(s.items)
}

// RemoveItems tira os ids do conjunto ativo (remoção otimista de
// soft-delete); os movimentos que os referenciam permanecem.
func (s *State) RemoveItems(ids []string) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if _, gone := set[it.ID]; !gone {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// PrependMovement anexa um movimento no topo (mais recente primeiro),
// respeitando o limite dado.
func (s *State) PrependMovement(mov entity.MovementLog, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append([]entity.MovementLog{mov}, s.movements...)
	if limit > 0 && len(s.movements) > limit {
		s.movements = s.movements[:limit]
	}
}

// UpsertUser insere ou substitui um perfil pelo crachá.
func (s *State) UpsertUser(profile entity.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.Badge == profile.Badge {
			s.users[i] = profile
			return
		}
	}
	s.users = append(s.users, profile)
}

// AddDepartment acrescenta o nome se ainda não existir.
func (s *State) AddDepartment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if d == name {
			return
		}
	}
	s.departments = append(s.departments, name)
	sort.Strings(s.departments)
}

// RemoveDepartment tira o nome do conjunto.
func (s *State) RemoveDepartment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.departments[:0]
	for _, d := range s.departments {
		if d != name {
			kept = append(kept, d)
		}
	}
	s.departments = kept
}

func sortItems(items []entity.InventoryItem) {
	sort.Slice(items, func(i, j int) bool {
		return strings.Compare(items[i].Name, items[j].Name) < 0
	})
}
