package models

import "github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"

// StoredResult is what is kept in the result store for a finished prediction,
// so the CSV download and the chart can be served later.
type StoredResult struct {
	CSV           []byte    `json:"csv"`
	Probabilities []float64 `json:"probabilities"`
}

type ModelInfoResponse struct {
	classifier.Info
	FeatureNames []string `json:"feature_names"`
}
