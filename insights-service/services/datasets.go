package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/store"
)

var (
	// ErrNoDataset means the user has not uploaded a dataset yet, or it expired.
	ErrNoDataset = errors.New("no dataset uploaded")
	// ErrProcessing wraps every failure caused by the uploaded file itself.
	ErrProcessing = errors.New("failed to process file")
)

const previewRows = 5

type DatasetService interface {
	Upload(ctx context.Context, userID uint, upload io.Reader) (*models.DatasetResponse, error)
	Preview(ctx context.Context, userID uint) (*models.DatasetResponse, error)
	Frame(ctx context.Context, userID uint) (*dataset.Frame, error)
}

type datasetService struct {
	store store.Store
	ttl   time.Duration
	lggr  *logger.Logger
}

func NewDatasetService(datasets store.Store, ttl time.Duration, lggr *logger.Logger) DatasetService {
	return &datasetService{store: datasets, ttl: ttl, lggr: lggr.Named("datasets")}
}

// Upload parses the CSV and keeps it as the user's current dataset,
// replacing any earlier upload.
func (s *datasetService) Upload(ctx context.Context, userID uint, upload io.Reader) (*models.DatasetResponse, error) {
	raw, err := io.ReadAll(upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	frame, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	if err := s.store.Set(ctx, datasetKey(userID), raw, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}

	s.lggr.Infow("dataset uploaded", "user_id", userID, "rows", frame.Nrow(), "columns", len(frame.Columns()))
	return describe(frame), nil
}

func (s *datasetService) Preview(ctx context.Context, userID uint) (*models.DatasetResponse, error) {
	frame, err := s.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return describe(frame), nil
}

func (s *datasetService) Frame(ctx context.Context, userID uint) (*dataset.Frame, error) {
	raw, err := s.store.Get(ctx, datasetKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	frame, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored dataset: %w", err)
	}
	return frame, nil
}

func describe(f *dataset.Frame) *models.DatasetResponse {
	return &models.DatasetResponse{
		Rows:    f.Nrow(),
		Columns: f.Columns(),
		Preview: f.Head(previewRows),
	}
}

func datasetKey(userID uint) string {
	return fmt.Sprintf("dataset:%d", userID)
}
