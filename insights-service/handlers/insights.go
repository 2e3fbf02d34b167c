package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/charts"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

type InsightsHandler struct {
	insightsService services.InsightsService
}

func NewInsightsHandler(insightsService services.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

func (h *InsightsHandler) Report(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.insightsService.Report(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, "insights fetched", report))
}

// FeatureByChurn returns box plot statistics of a numeric column per churn value.
func (h *InsightsHandler) FeatureByChurn(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.insightsService.FeatureByChurn(c.Request.Context(), userID, c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, "feature statistics fetched", stats))
}

func (h *InsightsHandler) Categorical(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	counts, err := h.insightsService.Categorical(c.Request.Context(), userID, c.Param("column"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, "category distribution fetched", counts))
}

func (h *InsightsHandler) ChurnChart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.insightsService.ChurnChart(c.Request.Context(), userID, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}

func (h *InsightsHandler) CategoricalChart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.insightsService.CategoricalChart(c.Request.Context(), userID, c.Param("column"), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}
