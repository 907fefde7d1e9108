package entity

import "time"

// Tipos de movimento de estoque.
const (
	MovementTypeIN     = "IN"     // entrada
	MovementTypeOUT    = "OUT"    // saída
	MovementTypeCREATE = "CREATE" // criação de item
	MovementTypeEDIT   = "EDIT"   // edição de item
)

// MovementLog registro imutável do trilho de auditoria.
// ItemName é um snapshot desnormalizado no momento da escrita e não é
// reescrito quando o item é renomeado. Quantity é sempre positiva; o
// tipo carrega a direção.
type MovementLog struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	ItemName   string    `json:"itemName"`
	Type       string    `json:"type"` // IN, OUT, CREATE, EDIT
	Quantity   int       `json:"quantity"`
	ActorBadge string    `json:"actorBadge"`
	ActorName  string    `json:"actorName"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ValidMovementType verifica se o tipo é um dos quatro aceitos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeCREATE, MovementTypeEDIT:
		return true
	}
	return false
}
