package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/services"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

type AuthenticationHandler struct {
	authService services.AuthenticationService
}

func NewAuthenticationHandler(authService services.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authService: authService}
}

func (h *AuthenticationHandler) SignUp(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, err.Error(), nil))
		return
	}

	resp, err := h.authService.SignUp(c.Request.Context(), &req)
	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, MsgPasswordMismatch, nil))
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, utils.APIResponse(true, MsgUsernameTaken, nil, http.StatusConflict))
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusCreated, utils.APIResponse(false, MsgSignupSuccess, resp, http.StatusCreated))
	}
}

func (h *AuthenticationHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.APIResponse(true, err.Error(), nil))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, utils.APIResponse(true, MsgInvalidLogin, nil, http.StatusUnauthorized))
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, utils.APIResponse(false, MsgLoginSuccess, resp))
	}
}
