package repository

import "context"

// Change notificação de mudança vinda da autoridade. Sem payload além de
// tabela e operação: consumidores devem tratar como "refaça o fetch",
// nunca como delta a aplicar.
type Change struct {
	Table     string // items, movements, users, departments
	Operation string // insert, update, delete, any
}

// ChangeNotifier porta do canal de assinatura da autoridade
// (broadcast best-effort, at-least-once).
type ChangeNotifier interface {
	// Listen bloqueia entregando notificações ao handler até o contexto
	// ser cancelado.
	Listen(ctx context.Context, handler func(Change)) error
}
