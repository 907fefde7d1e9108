package entity

import "time"

// InventoryItem representa um material do almoxarifado.
// CurrentStock nunca pode ser persistido negativo; a projeção é validada
// antes de qualquer escrita ou enfileiramento. LastUpdated funciona como
// revisão para detecção de escrita concorrente.
type InventoryItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	CurrentStock  int       `json:"currentStock"`
	MinStock      int       `json:"minStock"`
	Department    string    `json:"department"`
	Location      string    `json:"location"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
	IsActive      bool      `json:"isActive"`
}

// IsCritical indica se o estoque atual está no limiar mínimo ou abaixo dele.
func (i InventoryItem) IsCritical() bool {
	return i.CurrentStock <= i.MinStock
}
