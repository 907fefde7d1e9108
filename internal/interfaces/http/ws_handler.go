package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/juliasousa13/estoque-sync/internal/application/sync"
)

// WSHandler transmite os eventos do ciclo de sincronização para a UI
// (refresh concluído, ação enfileirada/drenada, borda de conectividade).
type WSHandler struct {
	events *sync.Broadcaster
}

// NewWSHandler constrói o handler.
func NewWSHandler(events *sync.Broadcaster) *WSHandler {
	return &WSHandler{events: events}
}

// Upgrade rejeita requisições que não pedem upgrade de websocket.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream envia cada evento publicado como um frame JSON. A assinatura é
// descartada quando o cliente fecha a conexão.
func (h *WSHandler) Stream(conn *websocket.Conn) {
	events, cancel := h.events.Subscribe()
	defer cancel()
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
