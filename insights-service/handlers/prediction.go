package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

func (h *PredictionHandler) Form(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	form, err := h.predictionService.Form(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, "Enter Customer Details Below", form))
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ManualPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, err.Error(), nil))
		return
	}

	resp, err := h.predictionService.Predict(c.Request.Context(), userID, req.Values)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, resp.Message, resp))
}
