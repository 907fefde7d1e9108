package entity

import (
	"encoding/json"
	"time"
)

// Tipos discriminados de ação pendente.
const (
	ActionAddItem     = "ADD_ITEM"
	ActionUpdateItem  = "UPDATE_ITEM"
	ActionDeleteItem  = "DELETE_ITEM"
	ActionAddMovement = "ADD_MOVEMENT"
	ActionAddUser     = "ADD_USER"
	ActionAddDept     = "ADD_DEPT"
	ActionDeleteDept  = "DELETE_DEPT"
)

// PendingAction entrada do log durável de mutações devidas à autoridade.
// O ID é gerado localmente (epoch-millis + sufixo aleatório) e resiste a
// colisões entre reinícios e processos concorrentes. O payload é opaco
// para a fila; só o motor de sincronização o interpreta.
type PendingAction struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}
