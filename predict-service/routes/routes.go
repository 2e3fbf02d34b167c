package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/handlers"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/middleware"
)

// maxUploadBytes bounds the in-memory part of a multipart upload.
const maxUploadBytes = 32 << 20

func SetupRoutes(hm *handlers.HandlerManager, corsOrigins []string, lggr *logger.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), logger.GinLogger(lggr), middleware.CORS(corsOrigins))

	api := r.Group("/api/v1")
	{
		api.GET("/model", hm.PredictHandler.ModelInfo)

		predictions := api.Group("/predictions")
		{
			predictions.POST("", hm.PredictHandler.Predict)
			predictions.GET("/:id/download", hm.PredictHandler.Download)
			predictions.GET("/:id/chart", hm.PredictHandler.Chart)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "predict",
		})
	})

	return r
}
