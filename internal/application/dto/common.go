package dto

// ErrorResponse formato padrão de erro da API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
