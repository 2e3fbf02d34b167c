package dataset

import (
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Encoded is a frame after one-hot encoding: every column is numeric. It may
// have no columns at all when every text value was missing.
type Encoded struct {
	df   dataframe.DataFrame
	nrow int
}

func (e *Encoded) Columns() []string {
	if e.df.Ncol() == 0 {
		return []string{}
	}
	return e.df.Names()
}

func (e *Encoded) Nrow() int { return e.nrow }

// Column returns the values of an encoded column, or nil if it does not exist.
func (e *Encoded) Column(name string) []float64 {
	if !slices.Contains(e.Columns(), name) {
		return nil
	}
	return e.df.Col(name).Float()
}

// OneHot expands every text column into one indicator column per observed
// category, named <column>_<category> with categories in lexical order.
// Numeric columns are kept as they are and bool columns become 0/1. A missing
// text value produces no indicator.
//
// Output order: kept columns in frame order, then the indicator groups in the
// order of their source columns.
func OneHot(f *Frame) (*Encoded, error) {
	var kept, dummies []series.Series

	for _, s := range columnsOf(f.df) {
		if s.Type() != series.String {
			kept = append(kept, series.New(s.Float(), series.Float, s.Name))
			continue
		}
		dummies = append(dummies, indicators(s)...)
	}

	cols := append(kept, dummies...)
	if len(cols) == 0 {
		return &Encoded{nrow: f.Nrow()}, nil
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to encode: %w", df.Err)
	}
	return &Encoded{df: df, nrow: df.Nrow()}, nil
}

func indicators(s series.Series) []series.Series {
	var categories []string
	seen := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		categories = append(categories, v)
	}
	slices.Sort(categories)

	out := make([]series.Series, 0, len(categories))
	for _, cat := range categories {
		values := make([]float64, s.Len())
		for i := range values {
			e := s.Elem(i)
			if !e.IsNA() && e.String() == cat {
				values[i] = 1
			}
		}
		out = append(out, series.New(values, series.Float, s.Name+"_"+cat))
	}
	return out
}

func columnsOf(df dataframe.DataFrame) []series.Series {
	names := df.Names()
	out := make([]series.Series, len(names))
	for i, name := range names {
		out[i] = df.Col(name)
	}
	return out
}
