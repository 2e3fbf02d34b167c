package services

import (
	"time"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
)

type ServiceManager struct {
	PredictService PredictService
}

func NewServiceManager(model Model, results store.Store, ttl time.Duration, lggr *logger.Logger) *ServiceManager {
	return &ServiceManager{
		PredictService: NewPredictService(model, results, ttl, lggr),
	}
}
