package fit

import "math"

// ParamTable is a small labeled table of float64 values: one row per data
// column, one column per parameter name. Tables are built once by the fit
// entry points and are read-only afterwards; accessors return copies.
type ParamTable struct {
	rowLabels []string
	colLabels []string
	rowIndex  map[string]int
	colIndex  map[string]int
	data      [][]float64
}

func newParamTable(rowLabels, colLabels []string) *ParamTable {
	t := &ParamTable{
		rowLabels: append([]string(nil), rowLabels...),
		colLabels: append([]string(nil), colLabels...),
		rowIndex:  make(map[string]int, len(rowLabels)),
		colIndex:  make(map[string]int, len(colLabels)),
		data:      make([][]float64, len(rowLabels)),
	}
	for i, label := range t.rowLabels {
		t.rowIndex[label] = i
		row := make([]float64, len(colLabels))
		for j := range row {
			row[j] = math.NaN()
		}
		t.data[i] = row
	}
	for j, label := range t.colLabels {
		t.colIndex[label] = j
	}
	return t
}

// set writes one cell; unknown labels are ignored since the builders only
// write labels they created the table with.
func (t *ParamTable) set(row, col string, v float64) {
	i, okRow := t.rowIndex[row]
	j, okCol := t.colIndex[col]
	if okRow && okCol {
		t.data[i][j] = v
	}
}

// RowLabels returns the row labels in table order.
func (t *ParamTable) RowLabels() []string {
	return append([]string(nil), t.rowLabels...)
}

// ColumnLabels returns the column labels in table order.
func (t *ParamTable) ColumnLabels() []string {
	return append([]string(nil), t.colLabels...)
}

// At returns the value at the given row and column labels, or NaN when
// either label does not exist.
func (t *ParamTable) At(row, col string) float64 {
	i, okRow := t.rowIndex[row]
	j, okCol := t.colIndex[col]
	if !okRow || !okCol {
		return math.NaN()
	}
	return t.data[i][j]
}

// Row returns a copy of the named row in column-label order, or nil when the
// label does not exist.
func (t *ParamTable) Row(label string) []float64 {
	i, ok := t.rowIndex[label]
	if !ok {
		return nil
	}
	return append([]float64(nil), t.data[i]...)
}

// Curve is one column's fitted or residual series.
type Curve struct {
	Column string
	X      []float64
	Y      []float64
}

// ColumnStats summarizes the quality of one column's fit.
type ColumnStats struct {
	NPoints int     // points used after missing-value removal
	NVarys  int     // varying parameters
	NFev    int     // objective evaluations, zero for closed-form fits
	Chisqr  float64 // sum of squared residuals
	RedChi  float64 // Chisqr per degree of freedom, NaN when NPoints <= NVarys
	R2      float64 // coefficient of determination, NaN when undefined
}

// Result holds the outcome of a batch NLS fit. The tables keep one row per
// input column in input order; columns that failed to converge keep their
// NaN row and are listed in Failed.
type Result struct {
	Values    *ParamTable            // fitted parameter values
	Stderr    *ParamTable            // standard errors, NaN where unavailable
	Residuals []Curve                // per succeeded column, over the cleaned x subset
	Fits      []Curve                // per succeeded column, over the model's independent variable
	Stats     map[string]ColumnStats // per succeeded column
	Failed    []string               // columns whose solve failed, input order

	models map[string]func(float64) float64
}

// ModelFor returns the fitted model for one column as a closure over that
// column's optimal parameters, with ok reporting whether the column was fitted
// successfully. In inverted mode the closure maps a dependent value back to
// the independent axis, matching the orientation the model was fitted in.
func (r *Result) ModelFor(column string) (func(float64) float64, bool) {
	m, ok := r.models[column]
	return m, ok
}

// PowerLawResult holds the outcome of a batch power-law fit. Values has
// exactly the columns "n" and "A" for the model A·xⁿ.
type PowerLawResult struct {
	Values *ParamTable
	Fits   []Curve
	Stats  map[string]ColumnStats
	Failed []string
}
