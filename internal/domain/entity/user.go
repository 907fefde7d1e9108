package entity

import "time"

// Papéis válidos para UserProfile.
const (
	RoleColaborador   = "Colaborador"
	RoleAlmoxarife    = "Almoxarife"
	RoleSupervisor    = "Supervisor"
	RoleAdministrador = "Administrador"
)

// UserProfile representa um funcionário identificado pelo crachá.
type UserProfile struct {
	Badge     string    `json:"badge"` // único
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidRole verifica se o papel é um dos quatro enumerados.
func ValidRole(r string) bool {
	switch r {
	case RoleColaborador, RoleAlmoxarife, RoleSupervisor, RoleAdministrador:
		return true
	}
	return false
}

// Session projeção reduzida do perfil para o login ativo.
// Derivada de UserProfile, nunca autoritativa por si.
type Session struct {
	Badge    string `json:"badge"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl,omitempty"`
}
