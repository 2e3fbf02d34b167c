package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/charts"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

const downloadName = "churn_predictions.csv"

type PredictHandler struct {
	predictService services.PredictService
}

func NewPredictHandler(predictService services.PredictService) *PredictHandler {
	return &PredictHandler{
		predictService: predictService,
	}
}

// Predict scores an uploaded CSV file sent as the multipart field "file".
func (h *PredictHandler) Predict(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, "please choose a CSV file to upload", nil))
		return
	}
	if err := utils.CheckCSVFilename(fh.Filename); err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, utils.ProcessingError(err), nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, utils.ProcessingError(err), nil))
		return
	}
	defer f.Close()

	resp, err := h.predictService.Predict(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, services.ErrProcessing) {
			c.JSON(http.StatusBadRequest, utils.APIResponse(true, utils.ProcessingError(err), nil))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.APIResponse(true, "prediction failed", nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.APIResponse(false, "Predictions completed", resp))
}

// Download returns the uploaded table with the prediction columns appended.
func (h *PredictHandler) Download(c *gin.Context) {
	data, err := h.predictService.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Chart renders the histogram of churn probabilities of a prediction.
func (h *PredictHandler) Chart(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.predictService.Chart(c.Request.Context(), c.Param("id"), &buf); err != nil {
		h.lookupError(c, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}

func (h *PredictHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, utils.APIResponse(false, "model details fetched", h.predictService.ModelInfo()))
}

func (h *PredictHandler) lookupError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, utils.APIResponse(true, err.Error(), nil, http.StatusNotFound))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, utils.APIResponse(true, "failed to load prediction", nil, http.StatusInternalServerError))
}
