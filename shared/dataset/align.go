package dataset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var ErrNoFeatures = errors.New("trained feature set is empty")

// Aligned is an encoded frame whose columns are exactly the trained feature
// set, in training order.
type Aligned struct {
	df      dataframe.DataFrame
	missing []string
	dropped []string
}

// Align reconciles an encoded upload with the features the model was fit on.
//
// Every trained name becomes a column, in order. Trained names absent from
// the upload are filled with zero; encoded columns the model never saw are
// dropped. Values are not scaled or coerced. An upload with no overlap at all
// yields an all-zero frame.
func Align(enc *Encoded, trained []string) (*Aligned, error) {
	if len(trained) == 0 {
		return nil, ErrNoFeatures
	}

	present := enc.Columns()
	cols := make([]series.Series, 0, len(trained))
	a := &Aligned{}
	for _, name := range trained {
		if slices.Contains(present, name) {
			cols = append(cols, enc.df.Col(name))
			continue
		}
		cols = append(cols, series.New(make([]float64, enc.Nrow()), series.Float, name))
		a.missing = append(a.missing, name)
	}
	for _, name := range present {
		if !slices.Contains(trained, name) {
			a.dropped = append(a.dropped, name)
		}
	}

	a.df = dataframe.New(cols...)
	if a.df.Err != nil {
		return nil, fmt.Errorf("failed to align features: %w", a.df.Err)
	}
	return a, nil
}

func (a *Aligned) Columns() []string { return a.df.Names() }

func (a *Aligned) Nrow() int { return a.df.Nrow() }

// Row returns the feature vector of row i in training order.
func (a *Aligned) Row(i int) []float64 {
	_, ncol := a.df.Dims()
	row := make([]float64, ncol)
	for c := range row {
		row[c] = a.df.Elem(i, c).Float()
	}
	return row
}

// Column returns the values of a trained feature, or nil if name is not one.
func (a *Aligned) Column(name string) []float64 {
	if !slices.Contains(a.df.Names(), name) {
		return nil
	}
	return a.df.Col(name).Float()
}

// Missing lists the trained features that were synthesized as zero.
func (a *Aligned) Missing() []string { return a.missing }

// Dropped lists the encoded columns that are not trained features.
func (a *Aligned) Dropped() []string { return a.dropped }

// Prepare one-hot encodes a frame and aligns it to the trained features.
func Prepare(f *Frame, trained []string) (*Aligned, error) {
	enc, err := OneHot(f)
	if err != nil {
		return nil, err
	}
	return Align(enc, trained)
}
