// Package dataframe provides the tabular input type consumed by the fit entry
// points: a shared numeric row index (the exogenous "x" axis) plus ordered,
// named float64 columns. Missing entries are represented as NaN and are
// removed per column by an explicit MissingPolicy before fitting.
package dataframe

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/fitgo/pkg/errors"
)

// MissingPolicy selects which values count as missing when a column is
// cleaned. It is passed explicitly into DropMissing rather than toggled as
// process-wide state, so two concurrent callers can use different policies.
type MissingPolicy int

const (
	// DropNaN treats only NaN entries as missing.
	DropNaN MissingPolicy = iota
	// DropNonFinite treats NaN and ±Inf entries as missing.
	DropNonFinite
)

// String returns the string representation of the policy.
func (p MissingPolicy) String() string {
	switch p {
	case DropNaN:
		return "drop-nan"
	case DropNonFinite:
		return "drop-nonfinite"
	default:
		return "unknown"
	}
}

// missing reports whether v counts as missing under the policy.
// Unknown policy values behave like DropNaN.
func (p MissingPolicy) missing(v float64) bool {
	if p == DropNonFinite && math.IsInf(v, 0) {
		return true
	}
	return math.IsNaN(v)
}

// Frame is a two-dimensional table: one shared row index and any number of
// ordered, named columns of the same length. Columns are independent trials
// of the same experiment; the index is the exogenous variable they share.
//
// The index must be finite everywhere; column values may contain NaN (and
// ±Inf) to mark missing observations. Accessors return copies, so a Frame
// cannot be mutated through the slices it hands out.
type Frame struct {
	index []float64
	names []string
	cols  map[string][]float64
}

// New creates an empty Frame over the given row index.
// The index must be non-empty and contain only finite values.
func New(index []float64) (*Frame, error) {
	if len(index) == 0 {
		return nil, errors.NewModelError("dataframe.New", "empty index", errors.ErrEmptyData)
	}
	for i, v := range index {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewValueError("dataframe.New",
				fmt.Sprintf("index must be finite everywhere; found %g at row %d", v, i))
		}
	}
	f := &Frame{
		index: append([]float64(nil), index...),
		cols:  make(map[string][]float64),
	}
	return f, nil
}

// FromColumns creates a Frame with the given columns in the given order.
// names and columns must have the same length, and every column must match
// the index length.
func FromColumns(index []float64, names []string, columns [][]float64) (*Frame, error) {
	if len(names) != len(columns) {
		return nil, errors.NewDimensionError("dataframe.FromColumns", len(names), len(columns), 1)
	}
	f, err := New(index)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if err := f.AddColumn(name, columns[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a named column. The name must be unique and non-empty;
// the values must match the index length. NaN entries mark missing
// observations and are legal.
func (f *Frame) AddColumn(name string, values []float64) error {
	if name == "" {
		return errors.NewValueError("Frame.AddColumn", "column name must not be empty")
	}
	if _, exists := f.cols[name]; exists {
		return errors.NewValueError("Frame.AddColumn", "duplicate column name '"+name+"'")
	}
	if len(values) != len(f.index) {
		return errors.NewDimensionError("Frame.AddColumn", len(f.index), len(values), 0)
	}
	f.names = append(f.names, name)
	f.cols[name] = append([]float64(nil), values...)
	return nil
}

// Len returns the number of rows (the index length).
func (f *Frame) Len() int {
	return len(f.index)
}

// NumColumns returns the number of data columns.
func (f *Frame) NumColumns() int {
	return len(f.names)
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// HasColumn reports whether a column with the given name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Index returns a copy of the row index.
func (f *Frame) Index() []float64 {
	return append([]float64(nil), f.index...)
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]float64, error) {
	values, ok := f.cols[name]
	if !ok {
		return nil, errors.NewValueError("Frame.Column", "no column named '"+name+"'")
	}
	return append([]float64(nil), values...), nil
}

// Series is a single column with its missing rows removed: the kept row
// positions, the matching index values, and the kept column values.
type Series struct {
	Name string    // column name
	Rows []int     // kept row positions in the frame
	X    []float64 // index values at the kept rows
	Y    []float64 // column values at the kept rows
}

// Len returns the number of kept rows.
func (s Series) Len() int {
	return len(s.Rows)
}

// DropMissing returns the named column's data with missing rows removed
// under the given policy. A column whose every entry is missing yields an
// empty Series; callers decide whether that is an error.
func (f *Frame) DropMissing(name string, policy MissingPolicy) (Series, error) {
	values, ok := f.cols[name]
	if !ok {
		return Series{}, errors.NewValueError("Frame.DropMissing", "no column named '"+name+"'")
	}
	s := Series{Name: name}
	for i, v := range values {
		if policy.missing(v) {
			continue
		}
		s.Rows = append(s.Rows, i)
		s.X = append(s.X, f.index[i])
		s.Y = append(s.Y, v)
	}
	return s, nil
}
