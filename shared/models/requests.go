package models

import "github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"

type SignupRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

type SignupResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
}

// MenuResponse lists the pages of the insights app and whether each needs a login.
type MenuResponse struct {
	Pages  []MenuPage `json:"pages"`
	Footer string     `json:"footer"`
}

type MenuPage struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Method        string `json:"method"`
	Authenticated bool   `json:"authenticated"`
}

// ===============================
// Predictions
// ===============================

type PredictionResponse struct {
	DownloadID              string        `json:"download_id"`
	Rows                    int           `json:"rows"`
	Preview                 dataset.Table `json:"preview"`
	Results                 dataset.Table `json:"results"`
	TotalPredictedChurns    int           `json:"total_predicted_churns"`
	AverageChurnProbability float64       `json:"average_churn_probability"`
	MissingFeatures         []string      `json:"missing_features,omitempty"`
}

// ===============================
// Datasets
// ===============================

type DatasetResponse struct {
	Rows    int           `json:"rows"`
	Columns []string      `json:"columns"`
	Preview dataset.Table `json:"preview"`
}

type FormField struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // number / text
	Default string `json:"default"`
}

type PredictionFormResponse struct {
	Fields []FormField `json:"fields"`
}

// ManualPredictionRequest carries one value per form field, keyed by column name.
type ManualPredictionRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

type ManualPredictionResponse struct {
	Status      string  `json:"status"` // Yes / No
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Message     string  `json:"message"`
}

type AboutResponse struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Benefits []string `json:"benefits"`
	ImageURL string   `json:"image_url"`
	Caption  string   `json:"caption"`
}
