package dto

// MovementRequest corpo de POST /api/movements.
type MovementRequest struct {
	ItemID   string `json:"itemId"`
	Type     string `json:"type"` // IN | OUT
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// UpsertItemRequest corpo de POST/PUT /api/items.
type UpsertItemRequest struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
	Department   string `json:"department"`
	Location     string `json:"location"`
	PhotoURL     string `json:"photoUrl,omitempty"`
}

// BatchDeleteRequest corpo de DELETE /api/items.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// UpsertUserRequest corpo de POST /api/users.
type UpsertUserRequest struct {
	Badge    string `json:"badge"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// DepartmentRequest corpo de POST /api/departments.
type DepartmentRequest struct {
	Name string `json:"name"`
}

// LoginRequest corpo de POST /api/session/login.
type LoginRequest struct {
	Badge string `json:"badge"`
}
