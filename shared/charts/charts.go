package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/insights"
)

// ContentType of every rendered chart.
const ContentType = "image/png"

// DefaultBins is the number of probability buckets in a prediction histogram.
const DefaultBins = 10

var ErrNoData = errors.New("nothing to chart")

const (
	width  = 800
	height = 500
)

// ChurnBar renders the churn distribution as a bar chart.
func ChurnBar(w io.Writer, counts []insights.ValueCount) error {
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		bars[i] = chart.Value{Label: c.Value, Value: float64(c.Count)}
	}
	return renderBars(w, "Churn Distribution", bars)
}

// CategoricalPie renders the share of each category of a column.
func CategoricalPie(w io.Writer, column string, counts []insights.ValueCount) error {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", c.Value, c.Percent),
			Value: float64(c.Count),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  column,
		Width:  height,
		Height: height,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

// Bin is one bucket of a histogram over [0, 1].
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets probabilities into n equal-width bins over [0, 1]. The
// last bin is closed so that a probability of exactly 1 is counted.
func Histogram(probabilities []float64, n int) []Bin {
	if n <= 0 {
		n = DefaultBins
	}
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = float64(i) / float64(n)
		bins[i].High = float64(i+1) / float64(n)
	}
	for _, p := range probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			continue
		}
		i := int(p * float64(n))
		if i == n {
			i--
		}
		bins[i].Count++
	}
	return bins
}

// ProbabilityHistogram renders the distribution of churn probabilities.
func ProbabilityHistogram(w io.Writer, probabilities []float64, n int) error {
	bins := Histogram(probabilities, n)
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{Label: fmt.Sprintf("%.1f-%.1f", b.Low, b.High), Value: float64(b.Count)}
	}
	return renderBars(w, "Churn Probability Distribution", bars)
}

func renderBars(w io.Writer, title string, bars []chart.Value) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	if top == 0 {
		return ErrNoData
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		// bars start at zero, not at the smallest count
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}
