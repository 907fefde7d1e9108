package connectivity_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/juliasousa13/estoque-sync/internal/application/connectivity"
	"github.com/juliasousa13/estoque-sync/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedProber devolve os resultados na ordem programada; esgotado,
// repete o último.
type scriptedProber struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (p *scriptedProber) Probe(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.results) == 0 {
		return nil
	}
	if len(p.results) == 1 {
		return p.results[0]
	}
	err := p.results[0]
	p.results = p.results[1:]
	return err
}

func (p *scriptedProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// edgeRecorder acumula as bordas notificadas.
type edgeRecorder struct {
	mu    sync.Mutex
	edges []bool
}

func (r *edgeRecorder) record(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, online)
}

func (r *edgeRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.edges...)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

var errUnreachable = errors.New("host unreachable")

func TestMonitor_PrimeiraSondaFixaEstadoSemBorda(t *testing.T) {
	prober := &scriptedProber{results: []error{nil}}
	rec := &edgeRecorder{}
	m := connectivity.NewMonitor(prober, 10*time.Millisecond, time.Second, logger.Nop())
	m.Subscribe(rec.record)

	assert.False(t, m.Online(), "estado indefinido lê como offline antes da primeira sonda")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	waitFor(t, m.Online, "a primeira sonda deveria fixar o estado online")
	cancel()
	<-done

	assert.Empty(t, rec.snapshot(), "fixar o estado inicial não é uma transição")
}

func TestMonitor_EmiteSomenteNasBordas(t *testing.T) {
	// online, online (debounce), offline, offline (debounce), online
	prober := &scriptedProber{results: []error{nil, nil, errUnreachable, errUnreachable, nil}}
	rec := &edgeRecorder{}
	m := connectivity.NewMonitor(prober, 5*time.Millisecond, time.Second, logger.Nop())
	m.Subscribe(rec.record)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 }, "esperava duas bordas")
	cancel()
	<-done

	edges := rec.snapshot()
	require.GreaterOrEqual(t, len(edges), 2)
	assert.False(t, edges[0], "primeira borda: online→offline")
	assert.True(t, edges[1], "segunda borda: offline→online")
	// Nenhuma borda repetida consecutiva.
	for i := 1; i < len(edges); i++ {
		assert.NotEqual(t, edges[i-1], edges[i], "bordas consecutivas devem alternar")
	}
}

func TestMonitor_CancelamentoParaAsSondas(t *testing.T) {
	prober := &scriptedProber{}
	m := connectivity.NewMonitor(prober, time.Millisecond, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	waitFor(t, func() bool { return prober.callCount() > 2 }, "o ticker deveria sondar repetidamente")
	cancel()
	<-done

	calls := prober.callCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, prober.callCount(), "nenhuma sonda após o cancelamento")
}
