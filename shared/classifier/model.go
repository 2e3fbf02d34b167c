package classifier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
)

var (
	ErrMissingValue    = errors.New("input contains a missing value")
	ErrFeatureMismatch = errors.New("input columns do not match the trained features")
)

// Classifier scores aligned customer rows for churn.
type Classifier interface {
	FeatureNames() []string
	Classes() []string
	Score(a *dataset.Aligned) (*Scores, error)
}

// Scores holds the per-row output of a classifier.
type Scores struct {
	Labels        []string  `json:"labels"`
	Probabilities []float64 `json:"probabilities"` // of the positive class
	Positive      []bool    `json:"-"`
}

// PositiveCount returns the number of rows predicted as the positive class.
func (s *Scores) PositiveCount() int {
	n := 0
	for _, p := range s.Positive {
		if p {
			n++
		}
	}
	return n
}

// MeanProbability returns the average positive-class probability.
func (s *Scores) MeanProbability() float64 {
	if len(s.Probabilities) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Probabilities {
		sum += p
	}
	return sum / float64(len(s.Probabilities))
}

// Info describes a loaded model.
type Info struct {
	Kind         string   `json:"kind"`
	FeatureCount int      `json:"feature_count"`
	Classes      []string `json:"classes"`
}

type estimator interface {
	proba(x []float64) (float64, error)
}

// Model is a loaded, immutable binary classifier. It is safe for concurrent use.
type Model struct {
	kind     string
	features []string
	classes  []string
	est      estimator
}

var _ Classifier = (*Model)(nil)

// Load reads and validates a model artifact from disk.
func Load(path string) (*Model, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return New(a)
}

// New builds a model from a decoded artifact.
func New(a *Artifact) (*Model, error) {
	if len(a.Classes) == 0 {
		a.Classes = []string{"0", "1"}
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	m := &Model{
		kind:     a.Kind,
		features: slices.Clone(a.FeatureNames),
		classes:  slices.Clone(a.Classes),
	}
	switch a.Kind {
	case KindLogisticRegression:
		m.est = &logisticRegression{intercept: a.Intercept, coef: slices.Clone(a.Coefficients)}
	case KindDecisionTree:
		m.est = &decisionTree{tree: *a.Tree}
	case KindRandomForest:
		positive, _ := voteLabel(a.Classes[1])
		m.est = &randomForest{model: a.forest, features: m.features, positive: positive}
	case KindGradientBoosting:
		m.est = &gradientBoosting{model: a.boosting, features: m.features}
	}
	return m, nil
}

func (m *Model) FeatureNames() []string { return slices.Clone(m.features) }

func (m *Model) Classes() []string { return slices.Clone(m.classes) }

func (m *Model) PositiveClass() string { return m.classes[1] }

func (m *Model) Info() Info {
	return Info{Kind: m.kind, FeatureCount: len(m.features), Classes: m.Classes()}
}

// PredictProba returns the positive-class probability of every row.
func (m *Model) PredictProba(a *dataset.Aligned) ([]float64, error) {
	if !slices.Equal(a.Columns(), m.features) {
		return nil, ErrFeatureMismatch
	}

	out := make([]float64, a.Nrow())
	for i := range out {
		x := a.Row(i)
		for j, v := range x {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: row %d, column %q", ErrMissingValue, i, m.features[j])
			}
		}
		p, err := m.est.proba(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Predict returns the class label of every row. A row is positive when its
// probability is above one half.
func (m *Model) Predict(a *dataset.Aligned) ([]string, error) {
	s, err := m.Score(a)
	if err != nil {
		return nil, err
	}
	return s.Labels, nil
}

func (m *Model) Score(a *dataset.Aligned) (*Scores, error) {
	probs, err := m.PredictProba(a)
	if err != nil {
		return nil, err
	}

	s := &Scores{
		Labels:        make([]string, len(probs)),
		Probabilities: probs,
		Positive:      make([]bool, len(probs)),
	}
	for i, p := range probs {
		// ties go to the negative class, as argmax over [1-p, p] does
		if p > 0.5 {
			s.Labels[i] = m.classes[1]
			s.Positive[i] = true
		} else {
			s.Labels[i] = m.classes[0]
		}
	}
	return s, nil
}
