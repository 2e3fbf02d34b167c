package services

import (
	"context"
	"io"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/charts"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/insights"
)

type InsightsService interface {
	Report(ctx context.Context, userID uint) (*insights.Report, error)
	FeatureByChurn(ctx context.Context, userID uint, column string) ([]insights.BoxStats, error)
	Categorical(ctx context.Context, userID uint, column string) ([]insights.ValueCount, error)
	ChurnChart(ctx context.Context, userID uint, w io.Writer) error
	CategoricalChart(ctx context.Context, userID uint, column string, w io.Writer) error
}

type insightsService struct {
	datasets DatasetService
}

func NewInsightsService(datasets DatasetService) InsightsService {
	return &insightsService{datasets: datasets}
}

func (s *insightsService) Report(ctx context.Context, userID uint) (*insights.Report, error) {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.BuildReport(f)
}

func (s *insightsService) FeatureByChurn(ctx context.Context, userID uint, column string) ([]insights.BoxStats, error) {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.FeatureByChurn(f, column)
}

func (s *insightsService) Categorical(ctx context.Context, userID uint, column string) ([]insights.ValueCount, error) {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.CategoricalDistribution(f, column)
}

func (s *insightsService) ChurnChart(ctx context.Context, userID uint, w io.Writer) error {
	f, err := s.datasets.Frame(ctx, userID)
	if err != nil {
		return err
	}
	counts, err := insights.ChurnDistribution(f)
	if err != nil {
		return err
	}
	return charts.ChurnBar(w, counts)
}

func (s *insightsService) CategoricalChart(ctx context.Context, userID uint, column string, w io.Writer) error {
	counts, err := s.Categorical(ctx, userID, column)
	if err != nil {
		return err
	}
	return charts.CategoricalPie(w, column, counts)
}
