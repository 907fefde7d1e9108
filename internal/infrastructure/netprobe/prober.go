// Package netprobe adapta o ping do pool PostgreSQL como fonte de
// alcançabilidade para o monitor de conectividade.
package netprobe

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juliasousa13/estoque-sync/internal/application/connectivity"
)

var _ connectivity.Prober = (*PoolProber)(nil)

// PoolProber sonda a autoridade com um ping do pool.
type PoolProber struct {
	pool *pgxpool.Pool
}

// NewPoolProber constrói a sonda sobre o pool existente.
func NewPoolProber(pool *pgxpool.Pool) *PoolProber {
	return &PoolProber{pool: pool}
}

// Probe devolve nil se a autoridade respondeu dentro do contexto.
func (p *PoolProber) Probe(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
