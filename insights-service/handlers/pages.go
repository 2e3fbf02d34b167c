package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/constants"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

// PageHandler serves the static pages: navigation menu and the about page.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

var menu = models.MenuResponse{
	Pages: []models.MenuPage{
		{Name: string(constants.PageLogin), Path: "/api/v1/login", Method: http.MethodPost},
		{Name: string(constants.PageSignup), Path: "/api/v1/signup", Method: http.MethodPost},
		{Name: string(constants.PageUpload), Path: "/api/v1/dataset", Method: http.MethodPost, Authenticated: true},
		{Name: string(constants.PageInsights), Path: "/api/v1/insights", Method: http.MethodGet, Authenticated: true},
		{Name: string(constants.PagePrediction), Path: "/api/v1/prediction", Method: http.MethodPost, Authenticated: true},
		{Name: string(constants.PageAbout), Path: "/api/v1/about", Method: http.MethodGet, Authenticated: true},
	},
	Footer: constants.MenuFooter,
}

var about = models.AboutResponse{
	Title:   "About Customer Churn",
	Summary: "Customer churn refers to when customers stop doing business with a company. Understanding churn helps businesses:",
	Benefits: []string{
		"Retain valuable customers",
		"Enhance customer service",
		"Improve profitability",
	},
	ImageURL: "https://images.pexels.com/photos/3183167/pexels-photo-3183167.jpeg?auto=compress&cs=tinysrgb&w=800",
	Caption:  "Customer Focus is Key",
}

func (h *PageHandler) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, utils.APIResponse(false, "Navigation", menu))
}

func (h *PageHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, utils.APIResponse(false, about.Title, about))
}
