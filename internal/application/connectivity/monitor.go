// Package connectivity rastreia o estado online/offline frente à
// autoridade e emite eventos apenas nas transições de borda.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

// Prober porta da fonte de alcançabilidade de rede (ping na autoridade).
type Prober interface {
	Probe(ctx context.Context) error
}

// Monitor deriva o booleano online/offline de sondas periódicas e
// notifica assinantes exatamente nas bordas (offline→online e
// online→offline); sondas repetidas com o mesmo resultado não reemitem.
type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	online bool
	primed bool // primeira sonda fixa o estado inicial sem emitir borda
	subs   []func(online bool)
}

// NewMonitor constrói o monitor. O estado inicial é indefinido até a
// primeira sonda; Online() devolve false até lá.
func NewMonitor(prober Prober, interval, timeout time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Online devolve o último estado observado.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registra um callback de borda. Registrar antes de Run;
// callbacks rodam na goroutine do monitor, um de cada vez.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Run sonda em loop até o contexto ser cancelado. A primeira sonda fixa
// o estado inicial; as seguintes emitem só quando o estado muda.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.prober.Probe(probeCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	m.observe(err == nil)
}

// observe aplica o resultado da sonda, com debounce de estados repetidos.
func (m *Monitor) observe(online bool) {
	m.mu.Lock()
	if m.primed && m.online == online {
		m.mu.Unlock()
		return
	}
	wasPrimed := m.primed
	m.online = online
	m.primed = true
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if !wasPrimed {
		m.log.Info().Bool("online", online).Msg("estado de conectividade inicial")
		return
	}

	m.log.Info().Bool("online", online).Msg("transição de conectividade")
	for _, fn := range subs {
		fn(online)
	}
}
