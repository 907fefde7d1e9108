package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juliasousa13/estoque-sync/internal/domain/repository"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

var _ repository.ChangeNotifier = (*ChangeListener)(nil)

// ChangeListener assinatura de mudanças via LISTEN/NOTIFY numa conexão
// dedicada do pool. O payload do NOTIFY carrega só tabela e operação,
// nunca um diff; o consumidor deve refazer o fetch.
type ChangeListener struct {
	pool    *pgxpool.Pool
	channel string
	log     *logger.Logger
}

// NewChangeListener constrói o listener para o canal configurado.
func NewChangeListener(pool *pgxpool.Pool, channel string, log *logger.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, channel: channel, log: log}
}

// payload formato esperado do NOTIFY emitido pelos triggers da autoridade.
type payload struct {
	Table     string `json:"table"`
	Operation string `json:"op"`
}

// Listen bloqueia entregando notificações ao handler até o contexto ser
// cancelado. Erros de conexão reconectam com espera fixa; notificações
// perdidas durante a janela são compensadas pelo refresh completo que
// cada notificação dispara.
func (l *ChangeListener) Listen(ctx context.Context, handler func(repository.Change)) error {
	const retryDelay = 5 * time.Second

	for {
		if err := l.listenOnce(ctx, handler); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Warn().Err(err).Str("channel", l.channel).Msg("assinatura caiu, reconectando")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// listenOnce segura uma conexão dedicada e consome notificações até erro
// ou cancelamento.
func (l *ChangeListener) listenOnce(ctx context.Context, handler func(repository.Change)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return err
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var p payload
		if err := json.Unmarshal([]byte(n.Payload), &p); err != nil || p.Table == "" {
			// Payload fora do formato: trate como "algo mudou" genérico.
			p = payload{Table: "any", Operation: "any"}
		}
		handler(repository.Change{Table: p.Table, Operation: p.Operation})
	}
}
