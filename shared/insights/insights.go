package insights

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/constants"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
)

var (
	ErrNoChurnColumn    = errors.New("no churn column")
	ErrNotEnoughNumeric = errors.New("fewer than two numeric columns")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrNotCategorical   = errors.New("column is not categorical")
	ErrNoObservedValues = errors.New("column has no values")
)

// User facing notices shown alongside a report.
const (
	NoticeNoChurnColumn    = "No 'Churn' column found in your dataset."
	NoticeNotEnoughNumeric = "Not enough numerical columns for correlation heatmap."
	NoticeNoCategorical    = "No categorical features available."
)

const previewRows = 5

// Report is everything the Data Insights page shows at once.
type Report struct {
	Overview          Overview           `json:"overview"`
	Summary           dataset.Table      `json:"summary"`
	Correlation       *CorrelationMatrix `json:"correlation,omitempty"`
	ChurnDistribution []ValueCount       `json:"churn_distribution,omitempty"`
	Notices           []string           `json:"notices"`
}

// BuildReport runs every insight that applies to f. Insights that do not
// apply are replaced by a notice.
func BuildReport(f *dataset.Frame) (*Report, error) {
	r := &Report{
		Overview: NewOverview(f),
		Summary:  Summary(f),
		Notices:  []string{},
	}

	corr, err := Correlation(f)
	switch {
	case errors.Is(err, ErrNotEnoughNumeric):
		r.Notices = append(r.Notices, NoticeNotEnoughNumeric)
	case err != nil:
		return nil, err
	default:
		r.Correlation = corr
	}

	dist, err := ChurnDistribution(f)
	switch {
	case errors.Is(err, ErrNoChurnColumn):
		r.Notices = append(r.Notices, NoticeNoChurnColumn)
	case errors.Is(err, ErrNoObservedValues):
	case err != nil:
		return nil, err
	default:
		r.ChurnDistribution = dist
	}

	if len(f.CategoricalColumns()) == 0 {
		r.Notices = append(r.Notices, NoticeNoCategorical)
	}
	return r, nil
}

// Overview is the first look at an uploaded dataset.
type Overview struct {
	Rows               int           `json:"rows"`
	Columns            int           `json:"columns"`
	NumericColumns     []string      `json:"numeric_columns"`
	CategoricalColumns []string      `json:"categorical_columns"`
	Preview            dataset.Table `json:"preview"`
}

func NewOverview(f *dataset.Frame) Overview {
	return Overview{
		Rows:               f.Nrow(),
		Columns:            len(f.Columns()),
		NumericColumns:     nonNil(f.NumericColumns()),
		CategoricalColumns: nonNil(f.CategoricalColumns()),
		Preview:            f.Head(previewRows),
	}
}

// Summary returns per column statistics: mean, median, stddev, min,
// quartiles and max for numeric columns; min and max for text columns.
func Summary(f *dataset.Frame) dataset.Table {
	return f.Describe()
}

// CorrelationMatrix holds pairwise Pearson coefficients. A nil cell means the
// coefficient is undefined, e.g. for a constant column.
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// Correlation computes the Pearson matrix over the numeric columns, using for
// each pair only the rows where both values are present.
func Correlation(f *dataset.Frame) (*CorrelationMatrix, error) {
	cols := f.NumericColumns()
	if len(cols) < 2 {
		return nil, ErrNotEnoughNumeric
	}

	data := make([][]float64, len(cols))
	for i, name := range cols {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		data[i] = s.Float()
	}

	m := &CorrelationMatrix{Columns: cols, Values: make([][]*float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]*float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			x, y := pairwise(data[i], data[j])
			if len(x) < 2 {
				continue
			}
			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			m.Values[i][j] = &r
			m.Values[j][i] = &r
		}
	}
	return m, nil
}

func pairwise(a, b []float64) (x, y []float64) {
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	return x, y
}

// ValueCount is one bar of a distribution.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ChurnDistribution counts the rows per value of the Churn column.
func ChurnDistribution(f *dataset.Frame) ([]ValueCount, error) {
	if !f.HasColumn(constants.ChurnColumn) {
		return nil, ErrNoChurnColumn
	}
	s, err := f.Column(constants.ChurnColumn)
	if err != nil {
		return nil, err
	}
	return valueCounts(s)
}

// CategoricalDistribution counts the rows per category of a text column.
func CategoricalDistribution(f *dataset.Frame, column string) ([]ValueCount, error) {
	s, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	if s.Type() != series.String {
		return nil, fmt.Errorf("%w: %q", ErrNotCategorical, column)
	}
	return valueCounts(s)
}

// valueCounts orders values by count, most frequent first. Missing values are
// not counted.
func valueCounts(s series.Series) ([]ValueCount, error) {
	counts := make(map[string]int)
	total := 0
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		counts[e.String()]++
		total++
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoObservedValues, s.Name)
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n, Percent: 100 * float64(n) / float64(total)})
	}
	slices.SortFunc(out, func(a, b ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out, nil
}

// BoxStats summarizes one group of a box plot. Quartiles are taken from the
// empirical distribution, without interpolation.
type BoxStats struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// FeatureByChurn groups a numeric column by the Churn value of each row.
// Groups are ordered by churn value.
func FeatureByChurn(f *dataset.Frame, column string) ([]BoxStats, error) {
	if !f.HasColumn(constants.ChurnColumn) {
		return nil, ErrNoChurnColumn
	}
	s, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	if s.Type() != series.Int && s.Type() != series.Float {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, column)
	}
	churn, err := f.Column(constants.ChurnColumn)
	if err != nil {
		return nil, err
	}

	values := s.Float()
	groups := make(map[string][]float64)
	for i, v := range values {
		label := churn.Elem(i)
		if label.IsNA() || math.IsNaN(v) {
			continue
		}
		groups[label.String()] = append(groups[label.String()], v)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoObservedValues, column)
	}

	out := make([]BoxStats, 0, len(groups))
	for group, x := range groups {
		out = append(out, boxStats(group, x))
	}
	slices.SortFunc(out, func(a, b BoxStats) int { return cmp.Compare(a.Group, b.Group) })
	return out, nil
}

func boxStats(group string, x []float64) BoxStats {
	slices.Sort(x)
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) < 2 {
		std = 0
	}
	return BoxStats{
		Group:  group,
		N:      len(x),
		Min:    x[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, x, nil),
		Median: stat.Quantile(0.5, stat.Empirical, x, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, x, nil),
		Max:    x[len(x)-1],
		Mean:   mean,
		StdDev: std,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
