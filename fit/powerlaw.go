package fit

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/metrics"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
	"github.com/YuminosukeSato/fitgo/pkg/log"
)

// PowerLaw fits A·xⁿ to every column of the frame by linear regression in
// log-log space. No iterative solver is involved: n is the slope and A the
// exponentiated intercept of the regression of log(y) on log(x).
//
// The shared index must be strictly positive, since it feeds the logarithm
// for every column; a non-positive index value fails the whole call with a
// DomainError. A non-positive value inside one column fails only that column:
// it is recorded in Failed, warned through errors.Warn, and the remaining
// columns proceed. A column with fewer than two usable points cannot define
// a line and aborts the whole call.
func PowerLaw(data *dataframe.Frame, opts ...Option) (*PowerLawResult, error) {
	start := time.Now()
	cfg := newConfig(dataframe.DropNaN, opts)

	if data == nil || data.NumColumns() == 0 {
		return nil, errors.NewModelError("PowerLaw", "empty table", errors.ErrEmptyData)
	}
	for _, v := range data.Index() {
		if v <= 0 {
			return nil, errors.NewDomainError("PowerLaw",
				"index values must be positive for the log-log regression", v)
		}
	}

	logger := cfg.logger.With(log.OperationKey, log.OperationPowerLaw)
	logger.Info("starting power-law fit",
		log.RowsKey, data.Len(),
		log.ColumnsKey, data.NumColumns(),
	)

	colNames := data.Columns()
	result := &PowerLawResult{
		Values: newParamTable(colNames, []string{"n", "A"}),
		Stats:  make(map[string]ColumnStats, len(colNames)),
	}

	for _, name := range colNames {
		series, err := data.DropMissing(name, cfg.missing)
		if err != nil {
			return nil, err
		}
		if series.Len() < 2 {
			return nil, errors.NewValueError("PowerLaw",
				fmt.Sprintf("column '%s' needs at least 2 usable points, has %d", name, series.Len()))
		}

		colLogger := logger.With(log.ColumnKey, name)
		if bad, v := firstNonPositive(series.Y); bad {
			result.Failed = append(result.Failed, name)
			domainErr := errors.NewDomainError("PowerLaw",
				fmt.Sprintf("column '%s' has non-positive values, log-log regression undefined", name), v)
			errors.Warn(domainErr)
			colLogger.Warn("column skipped",
				log.ErrorCodeKey, log.ErrorDomain,
				"error", domainErr,
			)
			continue
		}

		logx := make([]float64, series.Len())
		logy := make([]float64, series.Len())
		for i := range series.X {
			logx[i] = math.Log(series.X[i])
			logy[i] = math.Log(series.Y[i])
		}

		alpha, beta := stat.LinearRegression(logx, logy, nil, false)
		n, a := beta, math.Exp(alpha)
		if err := errors.CheckNumericalStability("PowerLaw", []float64{n, a}, 0); err != nil {
			result.Failed = append(result.Failed, name)
			errors.Warn(err)
			colLogger.Warn("column skipped",
				log.ErrorCodeKey, log.ErrorDomain,
				"error", err,
			)
			continue
		}

		result.Values.set(name, "n", n)
		result.Values.set(name, "A", a)

		fitY := make([]float64, series.Len())
		var chisqr float64
		for i, xv := range series.X {
			fitY[i] = a * math.Pow(xv, n)
			diff := series.Y[i] - fitY[i]
			chisqr += diff * diff
		}
		result.Fits = append(result.Fits, Curve{
			Column: name,
			X:      append([]float64(nil), series.X...),
			Y:      fitY,
		})

		redChi := math.NaN()
		if dof := series.Len() - 2; dof > 0 {
			redChi = chisqr / float64(dof)
		}
		r2 := math.NaN()
		if score, rerr := metrics.R2Score(series.Y, fitY); rerr == nil {
			r2 = score
		}
		result.Stats[name] = ColumnStats{
			NPoints: series.Len(),
			NVarys:  2,
			Chisqr:  chisqr,
			RedChi:  redChi,
			R2:      r2,
		}

		colLogger.Debug("column fitted",
			log.PointsKey, series.Len(),
			log.ChisqrKey, chisqr,
			log.R2ScoreKey, r2,
		)
	}

	logger.Info("power-law fit finished",
		log.ColumnsKey, len(colNames),
		log.FailedColumnsKey, result.Failed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

func firstNonPositive(values []float64) (bool, float64) {
	for _, v := range values {
		if v <= 0 {
			return true, v
		}
	}
	return false, 0
}
