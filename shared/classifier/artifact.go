package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asafschers/goscore"
	"gopkg.in/yaml.v3"
)

// Supported model kinds.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
	KindGradientBoosting   = "gradient_boosting"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact is the on-disk form of a trained binary classifier. It carries the
// ordered feature names the model was fit on and the parameters of one of the
// supported model kinds. Tree ensembles only come from PMML files.
type Artifact struct {
	Kind         string   `json:"kind" yaml:"kind"`
	FeatureNames []string `json:"feature_names" yaml:"feature_names"`
	Classes      []string `json:"classes,omitempty" yaml:"classes,omitempty"` // [negative, positive], defaults to ["0", "1"]

	// logistic_regression
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`

	// decision_tree
	Tree *Tree `json:"tree,omitempty" yaml:"tree,omitempty"`

	// random_forest, gradient_boosting
	forest   *goscore.RandomForest
	boosting *goscore.GradientBoostedModel
}

// Tree is a binary decision tree in flat array form, nodes in depth-first
// order. A node is a leaf when its left child is -1. Samples with
// x[Feature] <= Threshold go left.
//
// Value holds the class weights [negative, positive] of every node.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left" yaml:"children_left"`
	ChildrenRight []int       `json:"children_right" yaml:"children_right"`
	Feature       []int       `json:"feature" yaml:"feature"`
	Threshold     []float64   `json:"threshold" yaml:"threshold"`
	Value         [][]float64 `json:"value" yaml:"value"`
}

// LoadArtifact reads an artifact from a .json, .yaml, .yml or .pmml file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return ParseArtifact(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseArtifact decodes an artifact; format is "json", "yaml", "yml" or "pmml".
func ParseArtifact(data []byte, format string) (*Artifact, error) {
	var a Artifact
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
	case "pmml":
		return parsePMML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidArtifact, format)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("%w: feature_names is empty", ErrInvalidArtifact)
	}
	seen := make(map[string]struct{}, len(a.FeatureNames))
	for _, name := range a.FeatureNames {
		if name == "" {
			return fmt.Errorf("%w: empty feature name", ErrInvalidArtifact)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate feature name %q", ErrInvalidArtifact, name)
		}
		seen[name] = struct{}{}
	}
	if len(a.Classes) != 2 {
		return fmt.Errorf("%w: expected 2 classes, got %d", ErrInvalidArtifact, len(a.Classes))
	}

	n := len(a.FeatureNames)
	switch a.Kind {
	case KindLogisticRegression:
		if len(a.Coefficients) != n {
			return fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidArtifact, len(a.Coefficients), n)
		}
	case KindDecisionTree:
		if a.Tree == nil {
			return fmt.Errorf("%w: decision_tree without tree", ErrInvalidArtifact)
		}
		if err := a.Tree.validate(n); err != nil {
			return err
		}
	case KindRandomForest:
		if a.forest == nil || len(a.forest.Trees) == 0 {
			return fmt.Errorf("%w: random_forest without trees, ensembles load from pmml only", ErrInvalidArtifact)
		}
		for _, class := range a.Classes {
			if _, err := voteLabel(class); err != nil {
				return err
			}
		}
	case KindGradientBoosting:
		if a.boosting == nil || len(a.boosting.Trees) == 0 {
			return fmt.Errorf("%w: gradient_boosting without trees, ensembles load from pmml only", ErrInvalidArtifact)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
	return nil
}

func (t *Tree) validate(nFeatures int) error {
	nodes := len(t.ChildrenLeft)
	if nodes == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}
	if len(t.ChildrenRight) != nodes || len(t.Feature) != nodes || len(t.Threshold) != nodes || len(t.Value) != nodes {
		return fmt.Errorf("%w: tree arrays differ in length", ErrInvalidArtifact)
	}

	for i := 0; i < nodes; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == -1 {
			if len(t.Value[i]) < 2 {
				return fmt.Errorf("%w: leaf %d has %d values, want 2", ErrInvalidArtifact, i, len(t.Value[i]))
			}
			continue
		}
		// children come after their parent in depth-first order, which also rules out cycles
		if left <= i || left >= nodes || right <= i || right >= nodes {
			return fmt.Errorf("%w: node %d has children out of range", ErrInvalidArtifact, i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidArtifact, i, t.Feature[i], nFeatures)
		}
	}
	return nil
}
