package sync

import (
	gosync "sync"
	"time"
)

// EventType tipos de evento de sincronização emitidos aos consumidores
// (websocket da UI, logs, testes).
type EventType string

const (
	EventRefreshOK       EventType = "refresh_ok"
	EventRefreshFailed   EventType = "refresh_failed"
	EventActionQueued    EventType = "action_queued"
	EventActionDrained   EventType = "action_drained"
	EventActionDiscarded EventType = "action_discarded"
	EventConnectivity    EventType = "connectivity"
)

// Event notificação de sincronização para consumidores read-only.
type Event struct {
	Type   EventType      `json:"type"`
	At     time.Time      `json:"at"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Broadcaster fan-out de eventos para assinantes com canal próprio.
// Assinante lento perde eventos (drop-on-full): os eventos são dicas,
// nunca fonte de verdade; o estado real vem das projeções do State.
type Broadcaster struct {
	mu   gosync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster constrói o fan-out vazio.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe devolve o canal do assinante e a função de cancelamento.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish entrega o evento a todos os assinantes sem bloquear.
func (b *Broadcaster) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
