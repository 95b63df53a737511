package fit

import (
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/metrics"
	"github.com/YuminosukeSato/fitgo/optimize"
	"github.com/YuminosukeSato/fitgo/params"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
	"github.com/YuminosukeSato/fitgo/pkg/log"
)

// column holds one column's prepared solve inputs: independent and dependent
// samples with the mode applied, weights at the kept rows, and the starting
// parameters.
type column struct {
	name  string
	xs    []float64
	ys    []float64
	ws    []float64
	guess *params.Parameters
}

// NLS fits the model to every column of the frame independently by nonlinear
// least squares, sharing the frame's index as the exogenous variable.
//
// Input problems (nil model or guess, a column with no usable points, an
// underdetermined column, mismatched weights) abort the whole call before any
// solve. A column whose solve fails to converge does not: it is recorded in
// Result.Failed, raised as a ConvergenceWarning through errors.Warn, and the
// remaining columns proceed. The failed column's rows in Values and Stderr
// stay NaN.
//
// The guess runs once per column on its cleaned data and must yield the same
// parameter names for every column. Weights, log-space residuals and inverted
// models are enabled through options.
func NLS(data *dataframe.Frame, model ModelFunc, guess Guess, opts ...Option) (*Result, error) {
	start := time.Now()
	cfg := newConfig(dataframe.DropNonFinite, opts)

	if data == nil || data.NumColumns() == 0 {
		return nil, errors.NewModelError("NLS", "empty table", errors.ErrEmptyData)
	}
	if model == nil {
		return nil, errors.NewValueError("NLS", "model must not be nil")
	}
	if guess == nil {
		return nil, errors.NewValueError("NLS", "guess must not be nil")
	}
	if cfg.weights != nil && len(cfg.weights) != data.Len() {
		return nil, errors.NewDimensionError("NLS", data.Len(), len(cfg.weights), 0)
	}

	logger := cfg.logger.With(
		log.OperationKey, log.OperationFit,
		log.ModeKey, cfg.mode(),
	)
	logger.Info("starting batch fit",
		log.RowsKey, data.Len(),
		log.ColumnsKey, data.NumColumns(),
		log.WeightedKey, cfg.weights != nil,
	)

	colNames := data.Columns()
	prepared := make([]column, 0, len(colNames))
	var paramNames []string
	for _, name := range colNames {
		col, p, err := prepareColumn(data, name, guess, cfg)
		if err != nil {
			return nil, err
		}
		if paramNames == nil {
			paramNames = p.Names()
		} else if !equalNames(paramNames, p.Names()) {
			return nil, errors.NewValidationError(name,
				"guess produced different parameter names across columns", p.Names())
		}
		prepared = append(prepared, col)
	}

	result := &Result{
		Values: newParamTable(colNames, paramNames),
		Stderr: newParamTable(colNames, paramNames),
		Stats:  make(map[string]ColumnStats, len(prepared)),
		models: make(map[string]func(float64) float64, len(prepared)),
	}
	solverSettings := optimize.NewSettings(cfg.solverOpts...)

	for _, col := range prepared {
		colLogger := logger.With(log.ColumnKey, col.name)
		colLogger.Debug("fitting column",
			log.PointsKey, len(col.xs),
			log.ParamsKey, col.guess.Len(),
			log.VaryingKey, col.guess.NVarys(),
		)

		minRes, err := solveColumn(model, col, cfg)
		if err != nil {
			result.Failed = append(result.Failed, col.name)
			errors.Warn(errors.NewConvergenceWarning("NLS", solverSettings.MaxIterations,
				fmt.Sprintf("column '%s': %v", col.name, err)))
			colLogger.Warn("column failed to converge",
				log.ErrorCodeKey, log.ErrorConvergence,
				"error", err,
			)
			continue
		}

		fitted := minRes.Params
		for _, pname := range paramNames {
			result.Values.set(col.name, pname, fitted.Value(pname))
			result.Stderr.set(col.name, pname, fitted.Get(pname).Stderr)
		}

		fitY := make([]float64, len(col.xs))
		for i, xv := range col.xs {
			fitY[i] = model(xv, fitted)
		}
		result.Fits = append(result.Fits, Curve{
			Column: col.name,
			X:      append([]float64(nil), col.xs...),
			Y:      fitY,
		})

		// The residual curve is always indexed by the x subset, which in
		// inverted mode is the dependent side of the solve.
		resX := col.xs
		if cfg.invertedModel {
			resX = col.ys
		}
		result.Residuals = append(result.Residuals, Curve{
			Column: col.name,
			X:      append([]float64(nil), resX...),
			Y:      append([]float64(nil), minRes.Residual...),
		})

		r2 := math.NaN()
		if score, rerr := metrics.R2Score(col.ys, fitY); rerr == nil {
			r2 = score
		}
		result.Stats[col.name] = ColumnStats{
			NPoints: minRes.NData,
			NVarys:  minRes.NVarys,
			NFev:    minRes.NFev,
			Chisqr:  minRes.Chisqr,
			RedChi:  minRes.RedChi,
			R2:      r2,
		}
		result.models[col.name] = func(x float64) float64 {
			return model(x, fitted)
		}

		colLogger.Debug("column fitted",
			log.ChisqrKey, minRes.Chisqr,
			log.RedChiKey, minRes.RedChi,
			log.R2ScoreKey, r2,
			log.EvaluationsKey, minRes.NFev,
		)
	}

	logger.Info("batch fit finished",
		log.ColumnsKey, len(prepared),
		log.FailedColumnsKey, result.Failed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// prepareColumn cleans one column, runs the guess on its data, and validates
// that the column is solvable. All failures here are input errors that abort
// the whole batch.
func prepareColumn(data *dataframe.Frame, name string, guess Guess, cfg *config) (column, *params.Parameters, error) {
	series, err := data.DropMissing(name, cfg.missing)
	if err != nil {
		return column{}, nil, err
	}
	if series.Len() == 0 {
		return column{}, nil, errors.NewValueError("NLS",
			fmt.Sprintf("column '%s' has no usable points after missing-value removal", name))
	}

	var p *params.Parameters
	err = errors.SafeExecute("NLS.guess", func() error {
		var gerr error
		p, gerr = guess(series.X, series.Y)
		return gerr
	})
	if err != nil {
		return column{}, nil, errors.Wrapf(err, "NLS: guess failed for column '%s'", name)
	}
	if p == nil || p.Len() == 0 {
		return column{}, nil, errors.NewModelError("NLS",
			fmt.Sprintf("guess returned no parameters for column '%s'", name), errors.ErrEmptyData)
	}
	if p.NVarys() == 0 {
		return column{}, nil, errors.NewValueError("NLS",
			fmt.Sprintf("no varying parameters for column '%s'", name))
	}
	if series.Len() < p.NVarys() {
		return column{}, nil, errors.NewValueError("NLS",
			fmt.Sprintf("column '%s' is underdetermined: %d points for %d varying parameters",
				name, series.Len(), p.NVarys()))
	}

	xs, ys := series.X, series.Y
	if cfg.invertedModel {
		xs, ys = ys, xs
	}
	if cfg.logResidual {
		for _, v := range ys {
			if v <= 0 {
				return column{}, nil, errors.NewValueError("NLS",
					fmt.Sprintf("log residual requires positive observed values; column '%s' has %g", name, v))
			}
		}
	}

	var ws []float64
	if cfg.weights != nil {
		ws = make([]float64, len(series.Rows))
		for i, row := range series.Rows {
			ws[i] = cfg.weights[row]
		}
	}

	return column{name: name, xs: xs, ys: ys, ws: ws, guess: p}, p, nil
}

// solveColumn builds the objective for one column and runs the minimizer,
// shielding the batch from panics in the caller's model function.
func solveColumn(model ModelFunc, col column, cfg *config) (*optimize.MinimizeResult, error) {
	objective, err := Residual{
		Model:    model,
		X:        col.xs,
		Y:        col.ys,
		Weights:  col.ws,
		LogSpace: cfg.logResidual,
		Filter:   cfg.filter,
	}.Build()
	if err != nil {
		return nil, err
	}

	var minRes *optimize.MinimizeResult
	err = errors.SafeExecute("NLS.solveColumn", func() error {
		var serr error
		minRes, serr = optimize.Minimize(objective, col.guess, cfg.solverOpts...)
		return serr
	})
	if err != nil {
		return nil, err
	}
	return minRes, nil
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
