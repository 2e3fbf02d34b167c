package services

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/series"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
)

const (
	kindNumber = "number"
	kindText   = "text"
)

type PredictionService interface {
	Form(ctx context.Context, userID uint) (*models.PredictionFormResponse, error)
	Predict(ctx context.Context, userID uint, values map[string]string) (*models.ManualPredictionResponse, error)
}

type predictionService struct {
	model    classifier.Classifier
	datasets DatasetService
	lggr     *logger.Logger
}

func NewPredictionService(model classifier.Classifier, datasets DatasetService, lggr *logger.Logger) PredictionService {
	return &predictionService{model: model, datasets: datasets, lggr: lggr.Named("prediction")}
}

// Form lists one input per column of the uploaded dataset, except the last
// column which holds the label.
func (s *predictionService) Form(ctx context.Context, userID uint) (*models.PredictionFormResponse, error) {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.PredictionFormResponse{Fields: formFields(f)}, nil
}

// Predict scores a single customer entered through the form. Fields left out
// of values take their form default.
func (s *predictionService) Predict(ctx context.Context, userID uint, values map[string]string) (*models.ManualPredictionResponse, error) {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := formFields(f)
	frameTypes := f.Types()
	columns := make([]string, len(fields))
	types := make(map[string]series.Type, len(fields))
	row := make(map[string]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name
		// a whole-number column still accepts a fractional form value
		types[field.Name] = frameTypes[field.Name]
		if field.Kind == kindNumber {
			types[field.Name] = series.Float
		}
		row[field.Name] = field.Default
		if v, ok := values[field.Name]; ok {
			row[field.Name] = v
		}
	}

	input, err := dataset.FromValues(columns, types, row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	aligned, err := dataset.Prepare(input, s.model.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	scores, err := s.model.Score(aligned)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	status := "No"
	if scores.Positive[0] {
		status = "Yes"
	}
	s.lggr.Infow("manual prediction", "user_id", userID, "status", status, "probability", scores.Probabilities[0])

	return &models.ManualPredictionResponse{
		Status:      status,
		Label:       scores.Labels[0],
		Probability: scores.Probabilities[0],
		Message:     "Predicted Churn Status: " + status,
	}, nil
}

func formFields(f *dataset.Frame) []models.FormField {
	cols := f.Columns()
	if len(cols) > 0 {
		cols = cols[:len(cols)-1]
	}
	types := f.Types()

	fields := make([]models.FormField, len(cols))
	for i, col := range cols {
		switch types[col] {
		case series.Int, series.Float:
			fields[i] = models.FormField{Name: col, Kind: kindNumber, Default: "0"}
		case series.Bool:
			fields[i] = models.FormField{Name: col, Kind: kindText, Default: "false"}
		default:
			fields[i] = models.FormField{Name: col, Kind: kindText, Default: ""}
		}
	}
	return fields
}
