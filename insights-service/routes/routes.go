package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/insights-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/middleware"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

const maxUploadBytes = 32 << 20

// Options carries what the router needs besides the handlers.
type Options struct {
	Issuer      *utils.TokenIssuer
	Users       middleware.UserChecker
	CORSOrigins []string
	Logger      *logger.Logger
}

func SetupRoutes(h *handlers.HandlerManager, opts Options) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), logger.GinLogger(opts.Logger), middleware.CORS(opts.CORSOrigins))

	api := r.Group("/api/v1")
	{
		api.POST("/signup", h.AuthenticationHandler.SignUp)
		api.POST("/login", h.AuthenticationHandler.Login)
		api.GET("/menu", h.PageHandler.Menu)

		// new group with authentication
		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(opts.Issuer, opts.Users))
		{
			auth.POST("/dataset", h.DatasetHandler.Upload)
			auth.GET("/dataset", h.DatasetHandler.Preview)

			insights := auth.Group("/insights")
			{
				insights.GET("", h.InsightsHandler.Report)
				insights.GET("/features/:column", h.InsightsHandler.FeatureByChurn)
				insights.GET("/categorical/:column", h.InsightsHandler.Categorical)
				insights.GET("/charts/churn", h.InsightsHandler.ChurnChart)
				insights.GET("/charts/categorical/:column", h.InsightsHandler.CategoricalChart)
			}

			auth.GET("/prediction/form", h.PredictionHandler.Form)
			auth.POST("/prediction", h.PredictionHandler.Predict)
			auth.GET("/about", h.PageHandler.About)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "insights",
		})
	})

	return r
}
