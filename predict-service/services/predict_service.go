package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/predict-service/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/charts"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	sharedmodels "github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

var (
	// ErrProcessing wraps every failure caused by the uploaded file itself.
	ErrProcessing = errors.New("failed to process file")
	ErrNotFound   = errors.New("prediction not found or expired")
)

const previewRows = 5

// Model is the part of a loaded classifier the service needs.
type Model interface {
	classifier.Classifier
	Info() classifier.Info
}

type PredictService interface {
	Predict(ctx context.Context, upload io.Reader) (*sharedmodels.PredictionResponse, error)
	Download(ctx context.Context, id string) ([]byte, error)
	Chart(ctx context.Context, id string, w io.Writer) error
	ModelInfo() *models.ModelInfoResponse
}

type predictService struct {
	model Model
	store store.Store
	ttl   time.Duration
	lggr  *logger.Logger
}

func NewPredictService(model Model, results store.Store, ttl time.Duration, lggr *logger.Logger) PredictService {
	return &predictService{
		model: model,
		store: results,
		ttl:   ttl,
		lggr:  lggr.Named("predict"),
	}
}

func (s *predictService) Predict(ctx context.Context, upload io.Reader) (*sharedmodels.PredictionResponse, error) {
	frame, err := dataset.ReadCSV(upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	aligned, err := dataset.Prepare(frame, s.model.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	s.lggr.Debugw("aligned upload to trained features",
		"rows", aligned.Nrow(),
		"missing", aligned.Missing(),
		"dropped", aligned.Dropped(),
	)

	scores, err := s.model.Score(aligned)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	scored, err := frame.WithPredictions(scores.Labels, scores.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	var buf bytes.Buffer
	if err := scored.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	payload, err := json.Marshal(models.StoredResult{CSV: buf.Bytes(), Probabilities: scores.Probabilities})
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	id := utils.NewDownloadID()
	if err := s.store.Set(ctx, resultKey(id), payload, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	s.lggr.Infow("scored upload",
		"download_id", id,
		"rows", frame.Nrow(),
		"predicted_churns", scores.PositiveCount(),
	)

	return &sharedmodels.PredictionResponse{
		DownloadID:              id,
		Rows:                    frame.Nrow(),
		Preview:                 frame.Head(previewRows),
		Results:                 scored.Table(),
		TotalPredictedChurns:    scores.PositiveCount(),
		AverageChurnProbability: scores.MeanProbability(),
		MissingFeatures:         aligned.Missing(),
	}, nil
}

func (s *predictService) Download(ctx context.Context, id string) ([]byte, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return res.CSV, nil
}

func (s *predictService) Chart(ctx context.Context, id string, w io.Writer) error {
	res, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return charts.ProbabilityHistogram(w, res.Probabilities, charts.DefaultBins)
}

func (s *predictService) ModelInfo() *models.ModelInfoResponse {
	return &models.ModelInfoResponse{
		Info:         s.model.Info(),
		FeatureNames: s.model.FeatureNames(),
	}
}

func (s *predictService) load(ctx context.Context, id string) (*models.StoredResult, error) {
	if !utils.ValidDownloadID(id) {
		return nil, ErrNotFound
	}

	payload, err := s.store.Get(ctx, resultKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	var res models.StoredResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &res, nil
}

func resultKey(id string) string {
	return "prediction:" + id
}
