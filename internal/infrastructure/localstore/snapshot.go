package localstore

import (
	"encoding/json"
	"time"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

var _ appsync.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persistência do espelho local das quatro coleções.
type SnapshotStore struct {
	store *Store
	log   *logger.Logger
}

// NewSnapshotStore constrói o adaptador sobre o Store aberto.
func NewSnapshotStore(store *Store, log *logger.Logger) *SnapshotStore {
	return &SnapshotStore{store: store, log: log}
}

// Save substitui as quatro coleções no cache. Cada coleção é uma chave
// própria; a substituição é atômica por convenção (escritor único).
func (s *SnapshotStore) Save(snap appsync.Snapshot) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	entries := []struct {
		key   string
		value any
	}{
		{keyItems, snap.Items},
		{keyMovements, snap.Movements},
		{keyUsers, snap.Users},
		{keyDepartments, snap.Departments},
	}
	for _, e := range entries {
		raw, err := json.Marshal(e.value)
		if err != nil {
			return err
		}
		if err := s.store.put(e.key, raw, now); err != nil {
			return err
		}
	}
	return nil
}

// Load devolve o último snapshot salvo. Nunca devolve erro: chave
// ausente ou JSON malformado degradam para coleção vazia.
func (s *SnapshotStore) Load() appsync.Snapshot {
	var snap appsync.Snapshot
	loadKey(s, keyItems, &snap.Items)
	loadKey(s, keyMovements, &snap.Movements)
	loadKey(s, keyUsers, &snap.Users)
	loadKey(s, keyDepartments, &snap.Departments)
	return snap
}

// loadKey lê e desserializa uma coleção; qualquer falha deixa o destino
// como zero value e registra um warn.
func loadKey[T any](s *SnapshotStore, key string, dst *T) {
	raw, err := s.store.get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache local ilegível, usando vazio")
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var zero T
		*dst = zero
		s.log.Warn().Err(err).Str("key", key).Msg("cache local corrompido, usando vazio")
	}
}
