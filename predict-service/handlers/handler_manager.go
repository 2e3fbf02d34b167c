package handlers

import (
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/services"
)

type HandlerManager struct {
	PredictHandler *PredictHandler
}

func NewHandlerManager(sm *services.ServiceManager) *HandlerManager {
	return &HandlerManager{
		PredictHandler: NewPredictHandler(sm.PredictService),
	}
}
