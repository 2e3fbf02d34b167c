package classifier

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/asafschers/goscore"
)

type pmmlDocument struct {
	DataFields   []pmmlDataField   `xml:"DataDictionary>DataField"`
	MiningFields []pmmlMiningField `xml:"MiningModel>MiningSchema>MiningField"`
	// boosted ensembles nest a regression MiningModel inside the outer chain
	Stages []struct{} `xml:"MiningModel>Segmentation>Segment>MiningModel"`
}

type pmmlDataField struct {
	Name   string `xml:"name,attr"`
	Values []struct {
		Value string `xml:"value,attr"`
	} `xml:"Value"`
}

type pmmlMiningField struct {
	Name      string `xml:"name,attr"`
	UsageType string `xml:"usageType,attr"`
}

// parsePMML reads a tree ensemble exported as PMML. Feature names come from
// the active mining fields in schema order, classes from the target's values.
// A nested segmentation marks a gradient boosted model, anything else is
// scored as a random forest.
func parsePMML(data []byte) (*Artifact, error) {
	var doc pmmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	a := &Artifact{}
	var target string
	for _, f := range doc.MiningFields {
		switch f.UsageType {
		case "", "active":
			a.FeatureNames = append(a.FeatureNames, f.Name)
		case "target", "predicted":
			target = f.Name
		}
	}
	for _, f := range doc.DataFields {
		if f.Name != target || target == "" {
			continue
		}
		for _, v := range f.Values {
			a.Classes = append(a.Classes, v.Value)
		}
	}

	if len(doc.Stages) > 0 {
		a.Kind = KindGradientBoosting
		a.boosting = &goscore.GradientBoostedModel{}
		if err := xml.Unmarshal(data, a.boosting); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		return a, nil
	}

	a.Kind = KindRandomForest
	a.forest = &goscore.RandomForest{}
	if err := xml.Unmarshal(data, a.forest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return a, nil
}

// voteLabel is the form a forest leaf score takes when votes are counted.
func voteLabel(class string) (string, error) {
	v, err := strconv.ParseFloat(class, 64)
	if err != nil {
		return "", fmt.Errorf("%w: random_forest classes must be numeric, got %q", ErrInvalidArtifact, class)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func featureMap(names []string, x []float64) map[string]interface{} {
	features := make(map[string]interface{}, len(names))
	for i, name := range names {
		features[name] = x[i]
	}
	return features
}

// randomForest: the share of trees whose leaf votes for the positive class.
type randomForest struct {
	model    *goscore.RandomForest
	features []string
	positive string
}

func (m *randomForest) proba(x []float64) (float64, error) {
	return m.model.Score(featureMap(m.features, x), m.positive)
}

// gradientBoosting: sigmoid of the rescaled sum of stage outputs plus the
// model constant.
type gradientBoosting struct {
	model    *goscore.GradientBoostedModel
	features []string
}

func (m *gradientBoosting) proba(x []float64) (float64, error) {
	return m.model.Score(featureMap(m.features, x))
}
