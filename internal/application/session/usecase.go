// Package session gere a projeção do login ativo: crachá, nome, papel e
// foto, derivados do UserProfile e persistidos numa chave do cache
// local. Nunca é autoritativa por si.
package session

import (
	"strings"

	"github.com/juliasousa13/estoque-sync/internal/application/sync"
	"github.com/juliasousa13/estoque-sync/internal/domain"
	"github.com/juliasousa13/estoque-sync/internal/domain/entity"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

// Store porta de persistência da sessão ativa (uma chave).
type Store interface {
	Save(sess entity.Session) error
	Load() *entity.Session
	Clear() error
}

// UseCase casos de uso de sessão por crachá.
type UseCase struct {
	state *sync.State
	store Store
	log   *logger.Logger
}

// NewUseCase constrói o caso de uso sobre as projeções do State.
func NewUseCase(state *sync.State, store Store, log *logger.Logger) *UseCase {
	return &UseCase{state: state, store: store, log: log}
}

// Login resolve o crachá contra os perfis espelhados e persiste a
// projeção reduzida.
func (uc *UseCase) Login(badge string) (*entity.Session, error) {
	badge = strings.TrimSpace(badge)
	if badge == "" {
		return nil, domain.ErrInvalidInput
	}
	profile, ok := uc.state.UserByBadge(badge)
	if !ok {
		return nil, domain.ErrNotFound
	}

	sess := entity.Session{
		Badge:    profile.Badge,
		Name:     profile.Name,
		Role:     profile.Role,
		PhotoURL: profile.PhotoURL,
	}
	if err := uc.store.Save(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Current devolve a sessão ativa ou ErrNoSession.
func (uc *UseCase) Current() (*entity.Session, error) {
	sess := uc.store.Load()
	if sess == nil {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// Logout limpa a sessão persistida.
func (uc *UseCase) Logout() error {
	return uc.store.Clear()
}

// RefreshIfActive atualiza a projeção in place quando o perfil editado é
// o da sessão ativa. Registrado como hook do motor de sincronização.
func (uc *UseCase) RefreshIfActive(profile entity.UserProfile) {
	sess := uc.store.Load()
	if sess == nil || sess.Badge != profile.Badge {
		return
	}
	updated := entity.Session{
		Badge:    profile.Badge,
		Name:     profile.Name,
		Role:     profile.Role,
		PhotoURL: profile.PhotoURL,
	}
	if err := uc.store.Save(updated); err != nil {
		uc.log.Warn().Err(err).Str("badge", profile.Badge).Msg("falha ao atualizar sessão ativa")
	}
}
