package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/charts"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/insights"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/middleware"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

// Messages shown to the user.
const (
	MsgUploadFirst      = "Please upload a dataset first."
	MsgPasswordMismatch = "Passwords do not match!"
	MsgUsernameTaken    = "Username already exists. Please choose a different one."
	MsgSignupSuccess    = "Signup successful! Please log in."
	MsgInvalidLogin     = "Invalid username or password."
	MsgLoginSuccess     = "Login successful!"
	MsgUploadSuccess    = "Dataset successfully uploaded!"
)

type HandlerManager struct {
	AuthenticationHandler *AuthenticationHandler
	DatasetHandler        *DatasetHandler
	InsightsHandler       *InsightsHandler
	PredictionHandler     *PredictionHandler
	PageHandler           *PageHandler
}

func NewHandlerManager(sm *services.ServiceManager) *HandlerManager {
	return &HandlerManager{
		AuthenticationHandler: NewAuthenticationHandler(sm.AuthenticationService),
		DatasetHandler:        NewDatasetHandler(sm.DatasetService),
		InsightsHandler:       NewInsightsHandler(sm.InsightsService),
		PredictionHandler:     NewPredictionHandler(sm.PredictionService),
		PageHandler:           NewPageHandler(),
	}
}

// currentUser returns the id of the logged in user, answering 401 when the
// request carries no claims.
func currentUser(c *gin.Context) (uint, bool) {
	claims, ok := middleware.UserClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.APIResponse(true, middleware.LoginRequiredMessage, nil, http.StatusUnauthorized))
		return 0, false
	}
	return claims.UserID, true
}

// respondError maps a service error to a status and a user facing message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		c.JSON(http.StatusNotFound, utils.APIResponse(true, MsgUploadFirst, nil, http.StatusNotFound))
	case errors.Is(err, services.ErrProcessing):
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, utils.ProcessingError(err), nil))
	case errors.Is(err, insights.ErrNoChurnColumn):
		c.JSON(http.StatusNotFound, utils.APIResponse(true, insights.NoticeNoChurnColumn, nil, http.StatusNotFound))
	case errors.Is(err, dataset.ErrUnknownColumn):
		c.JSON(http.StatusNotFound, utils.APIResponse(true, err.Error(), nil, http.StatusNotFound))
	case errors.Is(err, insights.ErrNotNumeric),
		errors.Is(err, insights.ErrNotCategorical),
		errors.Is(err, insights.ErrNoObservedValues),
		errors.Is(err, charts.ErrNoData):
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, err.Error(), nil))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, utils.APIResponse(true, "something went wrong, please try again", nil, http.StatusInternalServerError))
	}
}
