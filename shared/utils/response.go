package utils

import (
	"net/http"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
)

// APIResponse builds the response envelope. Without an explicit status an
// error answers 400 and a success 200.
func APIResponse(errorFlag bool, message string, data any, status ...int) models.GenericResponse {
	code := http.StatusOK
	if errorFlag {
		code = http.StatusBadRequest
	}
	if len(status) > 0 {
		code = status[0]
	}

	resp := models.NewResponse(code, message, data)
	resp.Error = errorFlag
	return resp
}
