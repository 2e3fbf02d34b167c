package services

import (
	"time"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

type ServiceManager struct {
	AuthenticationService AuthenticationService
	DatasetService        DatasetService
	InsightsService       InsightsService
	PredictionService     PredictionService
}

func NewServiceManager(
	users CredentialStore,
	tokens *utils.TokenIssuer,
	model classifier.Classifier,
	datasets store.Store,
	datasetTTL time.Duration,
	lggr *logger.Logger,
) *ServiceManager {
	datasetService := NewDatasetService(datasets, datasetTTL, lggr)
	return &ServiceManager{
		AuthenticationService: NewAuthenticationService(users, tokens),
		DatasetService:        datasetService,
		InsightsService:       NewInsightsService(datasetService),
		PredictionService:     NewPredictionService(model, datasetService, lggr),
	}
}
