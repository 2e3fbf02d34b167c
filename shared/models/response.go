package models

// GenericResponse is the envelope every JSON endpoint answers with. Error
// mirrors whether Status is a 4xx/5xx code.
type GenericResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Status  int    `json:"status"`
}

// NewResponse builds an envelope for status.
func NewResponse(status int, message string, data any) GenericResponse {
	return GenericResponse{
		Error:   status >= 400,
		Message: message,
		Data:    data,
		Status:  status,
	}
}
