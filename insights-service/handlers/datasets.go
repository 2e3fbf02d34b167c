package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

type DatasetHandler struct {
	datasetService services.DatasetService
}

func NewDatasetHandler(datasetService services.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Upload replaces the user's dataset with the CSV sent as multipart field "file".
func (h *DatasetHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

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

	resp, err := h.datasetService.Upload(c.Request.Context(), userID, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, MsgUploadSuccess, resp))
}

func (h *DatasetHandler) Preview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.datasetService.Preview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.APIResponse(false, "dataset fetched", resp))
}
