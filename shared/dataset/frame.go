package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names appended to a scored upload.
const (
	PredictionColumn  = "Churn Prediction"
	ProbabilityColumn = "Churn Probability"
)

var (
	ErrEmpty         = errors.New("dataset has no rows")
	ErrUnknownColumn = errors.New("unknown column")
)

// nanValues mirrors the markers a CSV export usually uses for a missing cell.
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// utf8BOM is the byte order mark spreadsheet exports put before the header.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a JSON friendly rendering of a frame or a part of it.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Frame is an uploaded customer dataset: rows are customers, columns are
// mixed numeric/categorical features, optionally with a label column.
type Frame struct {
	df dataframe.DataFrame
}

// ReadCSV parses a CSV upload with a header row, detecting column types.
func ReadCSV(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrEmpty
	}

	return &Frame{df: df}, nil
}

// FromValues builds a single-row frame from form input. types gives the
// column kind to parse each value as; missing entries are parsed as text.
func FromValues(columns []string, types map[string]series.Type, values map[string]string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrEmpty
	}

	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col]
	}

	df := dataframe.LoadRecords([][]string{columns, row},
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build row: %w", df.Err)
	}

	return &Frame{df: df}, nil
}

func (f *Frame) Nrow() int { return f.df.Nrow() }

func (f *Frame) Columns() []string { return f.df.Names() }

// Types returns the detected kind of every column.
func (f *Frame) Types() map[string]series.Type {
	names := f.df.Names()
	types := f.df.Types()
	out := make(map[string]series.Type, len(names))
	for i, name := range names {
		out[name] = types[i]
	}
	return out
}

// NumericColumns returns the int and float columns, in frame order.
func (f *Frame) NumericColumns() []string {
	return f.columnsOf(series.Int, series.Float)
}

// CategoricalColumns returns the text columns, in frame order.
func (f *Frame) CategoricalColumns() []string {
	return f.columnsOf(series.String)
}

func (f *Frame) columnsOf(kinds ...series.Type) []string {
	var out []string
	types := f.df.Types()
	for i, name := range f.df.Names() {
		for _, k := range kinds {
			if types[i] == k {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func (f *Frame) HasColumn(name string) bool {
	for _, n := range f.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the raw series of a column.
func (f *Frame) Column(name string) (series.Series, error) {
	if !f.HasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return f.df.Col(name), nil
}

// Head returns the first n rows.
func (f *Frame) Head(n int) Table {
	if n > f.df.Nrow() {
		n = f.df.Nrow()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return toTable(f.df.Subset(idx))
}

// Table returns the whole frame.
func (f *Frame) Table() Table { return toTable(f.df) }

// Describe returns summary statistics per column.
func (f *Frame) Describe() Table { return toTable(f.df.Describe()) }

// WithPredictions returns a copy of the frame with the label and probability
// columns appended.
func (f *Frame) WithPredictions(labels []string, probabilities []float64) (*Frame, error) {
	if len(labels) != f.df.Nrow() || len(probabilities) != f.df.Nrow() {
		return nil, fmt.Errorf("got %d labels and %d probabilities for %d rows", len(labels), len(probabilities), f.df.Nrow())
	}

	df := f.df.Copy().
		Mutate(series.New(labels, series.String, PredictionColumn)).
		Mutate(series.New(probabilities, series.Float, ProbabilityColumn))
	if df.Err != nil {
		return nil, df.Err
	}

	return &Frame{df: df}, nil
}

// WriteCSV writes the frame with a header row. Missing values are written as
// empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	t := f.Table()
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	return cw.WriteAll(t.Rows)
}

func toTable(df dataframe.DataFrame) Table {
	nrow, ncol := df.Dims()
	rows := make([][]string, nrow)
	for i := range rows {
		rows[i] = make([]string, ncol)
		for j := 0; j < ncol; j++ {
			rows[i][j] = formatElem(df.Elem(i, j))
		}
	}
	return Table{Columns: df.Names(), Rows: rows}
}

// formatElem renders floats in their shortest form instead of gota's fixed
// six decimals.
func formatElem(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
