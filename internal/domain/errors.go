package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound      = errors.New("recurso não encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrNegativeStock = errors.New("estoque ficaria negativo")
	ErrConflict      = errors.New("revisão do item está obsoleta")
	ErrOffline       = errors.New("autoridade inacessível")
	ErrNoSession     = errors.New("nenhuma sessão ativa")
)
