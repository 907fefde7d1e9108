package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/juliasousa13/estoque-sync/internal/application/sync"
)

func TestBroadcaster_EntregaParaTodosOsAssinantes(t *testing.T) {
	b := appsync.NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(appsync.Event{Type: appsync.EventRefreshOK})

	for _, ch := range []<-chan appsync.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, appsync.EventRefreshOK, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("assinante não recebeu o evento")
		}
	}
}

func TestBroadcaster_AssinanteLentoNaoBloqueiaPublicacao(t *testing.T) {
	b := appsync.NewBroadcaster()
	_, cancel := b.Subscribe() // ninguém lê deste canal
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Publish(appsync.Event{Type: appsync.EventActionQueued})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueou num assinante sem leitor")
	}
}

func TestBroadcaster_CancelamentoDescartaAssinatura(t *testing.T) {
	b := appsync.NewBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()

	b.Publish(appsync.Event{Type: appsync.EventConnectivity})

	select {
	case _, open := <-ch:
		require.False(t, open, "o canal deve estar fechado após o cancelamento")
	case <-time.After(time.Second):
		t.Fatal("canal cancelado deveria fechar")
	}
}
