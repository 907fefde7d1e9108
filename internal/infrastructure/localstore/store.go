// Package localstore implementa o cache local durável sobre SQLite:
// o snapshot last-known-good das quatro coleções, a fila ordenada de
// ações pendentes e a projeção da sessão ativa.
//
// É um cache best-effort, não um log transacional: falhas de escrita do
// snapshot são logadas e engolidas pelo chamador; leituras toleram
// chaves ausentes e valores malformados devolvendo vazio.
package localstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_actions (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at TEXT NOT NULL
);
`

// Chaves da tabela cache.
const (
	keyItems       = "items"
	keyMovements   = "movements"
	keyUsers       = "users"
	keyDepartments = "departments"
	keySession     = "session"
)

// Store conexão single-writer com o arquivo SQLite local.
type Store struct {
	db *sql.DB
}

// Open cria ou abre o banco local no caminho dado, aplicando pragmas e
// o schema. Idempotente.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("abrir cache local: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("conectar cache local: %w", err)
	}

	// SQLite só suporta um escritor por vez; limitar conexões evita SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("aplicar %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar schema do cache: %w", err)
	}

	return &Store{db: db}, nil
}

// Close fecha a conexão com o banco.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// put grava um valor serializado sob a chave (upsert).
func (s *Store) put(key string, value []byte, updatedAt string) error {
	_, err := s.db.Exec(
		`INSERT INTO cache (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("gravar chave %s: %w", key, err)
	}
	return nil
}

// get lê o valor da chave; ausente devolve nil sem erro.
func (s *Store) get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ler chave %s: %w", key, err)
	}
	return value, nil
}

// del remove a chave (no-op se ausente).
func (s *Store) del(key string) error {
	if _, err := s.db.Exec(`DELETE FROM cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remover chave %s: %w", key, err)
	}
	return nil
}
