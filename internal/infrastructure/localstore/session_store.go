package localstore

import (
	"encoding/json"
	"time"

	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
)

// SessionStore persistência da projeção da sessão ativa (uma chave).
type SessionStore struct {
	store *Store
}

// NewSessionStore constrói o adaptador sobre o Store aberto.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store}
}

// Save grava a projeção da sessão ativa.
func (s *SessionStore) Save(sess entity.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.store.put(keySession, raw, time.Now().UTC().Format(time.RFC3339Nano))
}

// Load devolve a sessão ativa ou nil se ausente/ilegível.
func (s *SessionStore) Load() *entity.Session {
	raw, err := s.store.get(keySession)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var sess entity.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil
	}
	return &sess
}

// Clear remove a sessão persistida (logout).
func (s *SessionStore) Clear() error {
	return s.store.del(keySession)
}
