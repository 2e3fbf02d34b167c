package classifier

import "math"

// sigmoid maps a raw score to a probability without overflowing for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logisticRegression: p = sigmoid(intercept + sum(coef_i * x_i)).
type logisticRegression struct {
	intercept float64
	coef      []float64
}

func (m *logisticRegression) proba(x []float64) (float64, error) {
	z := m.intercept
	for i, w := range m.coef {
		z += w * x[i]
	}
	return sigmoid(z), nil
}

// leaf walks the tree and returns the index of the leaf x falls into.
func (t *Tree) leaf(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		// trees are fit on float32 inputs, so compare at that precision
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

// decisionTree: the positive-class share of the class weights at the leaf.
type decisionTree struct {
	tree Tree
}

func (m *decisionTree) proba(x []float64) (float64, error) {
	v := m.tree.Value[m.tree.leaf(x)]
	total := v[0] + v[1]
	if total <= 0 {
		return 0, nil
	}
	return v[1] / total, nil
}
