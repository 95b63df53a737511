package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/params"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
	"github.com/YuminosukeSato/fitgo/pkg/log"
)

func expModel(x float64, p *params.Parameters) float64 {
	return p.Value("A") * math.Exp(p.Value("k")*x)
}

func expGuess(t *testing.T) Guess {
	t.Helper()
	p := params.New()
	require.NoError(t, p.Add("A", 1.0))
	require.NoError(t, p.Add("k", -0.3))
	return Fixed(p)
}

// expFrame builds a 20-row frame with two exact exponential columns:
// "first" = 2*exp(-x) and "second" = 3*exp(-0.5*x).
func expFrame(t *testing.T) *dataframe.Frame {
	t.Helper()
	index := make([]float64, 20)
	for i := range index {
		index[i] = 0.1 * float64(i+1)
	}
	f, err := dataframe.New(index)
	require.NoError(t, err)
	addExpColumn(t, f, "first", 2.0, -1.0)
	addExpColumn(t, f, "second", 3.0, -0.5)
	return f
}

func addExpColumn(t *testing.T, f *dataframe.Frame, name string, a, k float64) {
	t.Helper()
	ys := make([]float64, f.Len())
	for i, x := range f.Index() {
		ys[i] = a * math.Exp(k*x)
	}
	require.NoError(t, f.AddColumn(name, ys))
}

// quietOpt silences a fit's log output during tests.
func quietOpt() Option {
	logger, _ := log.NewTestLogger(log.LevelError)
	return WithLogger(logger)
}

// captureWarnings collects warnings raised during a test.
func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	t.Cleanup(func() {
		errors.SetWarningHandler(func(w error) {})
	})
	return &warnings
}

func TestNLSRecoversKnownParameters(t *testing.T) {
	f := expFrame(t)

	result, err := NLS(f, expModel, expGuess(t), quietOpt())
	require.NoError(t, err)

	assert.Empty(t, result.Failed)
	assert.InDelta(t, 2.0, result.Values.At("first", "A"), 1e-3)
	assert.InDelta(t, -1.0, result.Values.At("first", "k"), 1e-3)
	assert.InDelta(t, 3.0, result.Values.At("second", "A"), 1e-3)
	assert.InDelta(t, -0.5, result.Values.At("second", "k"), 1e-3)

	assert.Equal(t, []string{"first", "second"}, result.Values.RowLabels())
	assert.Equal(t, []string{"A", "k"}, result.Values.ColumnLabels())
	assert.Equal(t, result.Values.RowLabels(), result.Stderr.RowLabels())

	require.Len(t, result.Fits, 2)
	require.Len(t, result.Residuals, 2)
	assert.Equal(t, "first", result.Fits[0].Column)
	// No missing values, so the fitted curve runs over the full index.
	assert.Equal(t, f.Index(), result.Fits[0].X)

	for _, stats := range result.Stats {
		assert.Equal(t, 20, stats.NPoints)
		assert.Equal(t, 2, stats.NVarys)
		assert.InDelta(t, 0.0, stats.Chisqr, 1e-6)
		assert.InDelta(t, 1.0, stats.R2, 1e-6)
		assert.True(t, stats.NFev > 0)
	}

	// Noiseless data also pins the standard errors near zero.
	assert.True(t, result.Stderr.At("first", "A") < 1e-3)
	assert.False(t, math.IsNaN(result.Stderr.At("first", "k")))
}

func TestNLSUniformWeightsMatchUnweighted(t *testing.T) {
	f := expFrame(t)
	ones := make([]float64, f.Len())
	for i := range ones {
		ones[i] = 1.0
	}

	plain, err := NLS(f, expModel, expGuess(t), quietOpt())
	require.NoError(t, err)
	weighted, err := NLS(f, expModel, expGuess(t), quietOpt(), WithWeights(ones))
	require.NoError(t, err)

	for _, col := range plain.Values.RowLabels() {
		for _, name := range plain.Values.ColumnLabels() {
			assert.InDelta(t, plain.Values.At(col, name), weighted.Values.At(col, name), 1e-9,
				"uniform unit weights must not change the fit for %s.%s", col, name)
		}
	}
}

func TestNLSLogResidual(t *testing.T) {
	index := make([]float64, 20)
	for i := range index {
		index[i] = float64(i + 1)
	}
	f, err := dataframe.New(index)
	require.NoError(t, err)

	ys := make([]float64, len(index))
	for i, x := range index {
		ys[i] = 2.0 * math.Pow(x, 0.5)
	}
	require.NoError(t, f.AddColumn("msd", ys))

	powModel := func(x float64, p *params.Parameters) float64 {
		return p.Value("A") * math.Pow(x, p.Value("n"))
	}
	p := params.New()
	require.NoError(t, p.Add("A", 1.0))
	require.NoError(t, p.Add("n", 1.0))

	result, err := NLS(f, powModel, Fixed(p), quietOpt(), WithLogResidual(true))
	require.NoError(t, err)

	assert.Empty(t, result.Failed)
	assert.InDelta(t, 2.0, result.Values.At("msd", "A"), 1e-3)
	assert.InDelta(t, 0.5, result.Values.At("msd", "n"), 1e-3)
	assert.InDelta(t, 0.0, result.Stats["msd"].Chisqr, 1e-8)
}

func TestNLSLogResidualRequiresPositiveObserved(t *testing.T) {
	f, err := dataframe.New([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, f.AddColumn("y", []float64{1, -2, 3, 4}))

	_, err = NLS(f, expModel, expGuess(t), quietOpt(), WithLogResidual(true))
	require.Error(t, err)

	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestNLSSkipsMissingRows(t *testing.T) {
	f := expFrame(t)

	ys := make([]float64, f.Len())
	for i, x := range f.Index() {
		ys[i] = 2.5 * math.Exp(-0.8*x)
	}
	ys[3] = math.NaN()
	ys[7] = math.NaN()
	ys[11] = math.Inf(1)
	require.NoError(t, f.AddColumn("gappy", ys))

	result, err := NLS(f, expModel, expGuess(t), quietOpt())
	require.NoError(t, err)

	assert.Empty(t, result.Failed)
	assert.Equal(t, 17, result.Stats["gappy"].NPoints,
		"NaN and Inf rows are both missing under the default policy")
	assert.InDelta(t, 2.5, result.Values.At("gappy", "A"), 1e-3)
	assert.InDelta(t, -0.8, result.Values.At("gappy", "k"), 1e-3)

	// The clean columns are not affected by another column's missing rows.
	assert.Equal(t, 20, result.Stats["first"].NPoints)
	assert.InDelta(t, 2.0, result.Values.At("first", "A"), 1e-3)

	// The cleaned x subset must not contain the dropped rows' index values.
	var gappy Curve
	for _, c := range result.Residuals {
		if c.Column == "gappy" {
			gappy = c
		}
	}
	require.Len(t, gappy.X, 17)
	for _, x := range gappy.X {
		assert.NotEqual(t, f.Index()[3], x)
		assert.NotEqual(t, f.Index()[7], x)
	}

	// DropNaN keeps the Inf row; the residual filter absorbs it.
	relaxed, err := NLS(f, expModel, expGuess(t), quietOpt(),
		WithMissingPolicy(dataframe.DropNaN))
	require.NoError(t, err)
	assert.Equal(t, 18, relaxed.Stats["gappy"].NPoints)
	assert.InDelta(t, 2.5, relaxed.Values.At("gappy", "A"), 1e-2)
}

func TestNLSPanickingModelFailsOnlyItsColumn(t *testing.T) {
	index := make([]float64, 20)
	for i := range index {
		index[i] = 0.1 * float64(i+1)
	}
	f, err := dataframe.New(index)
	require.NoError(t, err)
	// The failing column comes first, so a success afterwards proves the
	// batch kept going.
	addExpColumn(t, f, "bad", 200.0, -1.0)
	addExpColumn(t, f, "good", 2.0, -1.0)

	// The guess marks the large-amplitude column; the model panics on the mark.
	markGuess := func(x, y []float64) (*params.Parameters, error) {
		p := params.New()
		if err := p.Add("A", 1.0); err != nil {
			return nil, err
		}
		if err := p.Add("k", -0.3); err != nil {
			return nil, err
		}
		mark := 0.0
		if y[0] > 100 {
			mark = 1.0
		}
		if err := p.Add("mark", mark, params.WithVary(false)); err != nil {
			return nil, err
		}
		return p, nil
	}
	markedModel := func(x float64, p *params.Parameters) float64 {
		if p.Value("mark") == 1 {
			panic("model blew up")
		}
		return expModel(x, p)
	}

	warnings := captureWarnings(t)
	testLogger, _ := log.NewTestLogger(log.LevelDebug)

	result, err := NLS(f, markedModel, markGuess, WithLogger(testLogger))
	require.NoError(t, err, "a failing column must not abort the batch")

	assert.Equal(t, []string{"bad"}, result.Failed)

	// The failed column keeps its NaN row, the good one is fitted.
	assert.True(t, math.IsNaN(result.Values.At("bad", "A")))
	assert.True(t, math.IsNaN(result.Stderr.At("bad", "k")))
	assert.InDelta(t, 2.0, result.Values.At("good", "A"), 1e-3)

	require.Len(t, result.Fits, 1)
	assert.Equal(t, "good", result.Fits[0].Column)
	_, ok := result.Stats["bad"]
	assert.False(t, ok)
	_, ok = result.ModelFor("bad")
	assert.False(t, ok)

	require.Len(t, *warnings, 1)
	var convWarn *errors.ConvergenceWarning
	assert.True(t, errors.As((*warnings)[0], &convWarn))
	assert.Contains(t, convWarn.Message, "bad")

	assert.True(t, testLogger.ContainsMessage("column failed to converge"))
	assert.True(t, testLogger.ContainsField(log.ColumnKey, "bad"))
}

func TestNLSInvertedModel(t *testing.T) {
	// The relation is x = A*sqrt(y) with A=2, so the column holds y = (x/2)².
	index := make([]float64, 10)
	for i := range index {
		index[i] = 0.5 * float64(i+1)
	}
	f, err := dataframe.New(index)
	require.NoError(t, err)

	ys := make([]float64, len(index))
	for i, x := range index {
		ys[i] = (x / 2) * (x / 2)
	}
	require.NoError(t, f.AddColumn("curve", ys))

	sqrtModel := func(v float64, p *params.Parameters) float64 {
		return p.Value("A") * math.Sqrt(v)
	}
	p := params.New()
	require.NoError(t, p.Add("A", 1.0))

	result, err := NLS(f, sqrtModel, Fixed(p), quietOpt(), WithInvertedModel(true))
	require.NoError(t, err)

	assert.Empty(t, result.Failed)
	assert.InDelta(t, 2.0, result.Values.At("curve", "A"), 1e-6)

	// The fitted curve runs over the model's independent variable, which in
	// inverted mode is the column's own values; the residual curve keeps the
	// x subset.
	require.Len(t, result.Fits, 1)
	assert.InDelta(t, ys[0], result.Fits[0].X[0], 1e-12)
	require.Len(t, result.Residuals, 1)
	assert.InDelta(t, index[0], result.Residuals[0].X[0], 1e-12)

	m, ok := result.ModelFor("curve")
	require.True(t, ok)
	assert.InDelta(t, 2.0, m(1.0), 1e-6, "closure maps a column value back to the index axis")
}

func TestNLSModelForIsPerColumn(t *testing.T) {
	f := expFrame(t)

	result, err := NLS(f, expModel, expGuess(t), quietOpt())
	require.NoError(t, err)

	mFirst, ok := result.ModelFor("first")
	require.True(t, ok)
	mSecond, ok := result.ModelFor("second")
	require.True(t, ok)

	// 2*exp(-1) vs 3*exp(-0.5): distinct columns keep distinct optima.
	assert.InDelta(t, 2.0*math.Exp(-1.0), mFirst(1.0), 1e-3)
	assert.InDelta(t, 3.0*math.Exp(-0.5), mSecond(1.0), 1e-3)
}

func TestNLSValidation(t *testing.T) {
	f := expFrame(t)

	t.Run("nil frame", func(t *testing.T) {
		_, err := NLS(nil, expModel, expGuess(t), quietOpt())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("frame without columns", func(t *testing.T) {
		empty, err := dataframe.New([]float64{1, 2, 3})
		require.NoError(t, err)
		_, err = NLS(empty, expModel, expGuess(t), quietOpt())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("nil model", func(t *testing.T) {
		_, err := NLS(f, nil, expGuess(t), quietOpt())
		assert.Error(t, err)
	})

	t.Run("nil guess", func(t *testing.T) {
		_, err := NLS(f, expModel, nil, quietOpt())
		assert.Error(t, err)
	})

	t.Run("weights length mismatch", func(t *testing.T) {
		_, err := NLS(f, expModel, expGuess(t), quietOpt(), WithWeights([]float64{1, 2}))
		require.Error(t, err)
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("column with no usable points", func(t *testing.T) {
		g, err := dataframe.New([]float64{1, 2, 3})
		require.NoError(t, err)
		require.NoError(t, g.AddColumn("void", []float64{math.NaN(), math.NaN(), math.NaN()}))
		_, err = NLS(g, expModel, expGuess(t), quietOpt())
		assert.Error(t, err)
	})

	t.Run("guess returns no parameters", func(t *testing.T) {
		emptyGuess := func(x, y []float64) (*params.Parameters, error) {
			return params.New(), nil
		}
		_, err := NLS(f, expModel, emptyGuess, quietOpt())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("guess returns only fixed parameters", func(t *testing.T) {
		frozenGuess := func(x, y []float64) (*params.Parameters, error) {
			p := params.New()
			if err := p.Add("A", 1.0, params.WithVary(false)); err != nil {
				return nil, err
			}
			return p, nil
		}
		_, err := NLS(f, expModel, frozenGuess, quietOpt())
		assert.Error(t, err)
	})

	t.Run("guess panics", func(t *testing.T) {
		panicGuess := func(x, y []float64) (*params.Parameters, error) {
			panic("guess blew up")
		}
		_, err := NLS(f, expModel, panicGuess, quietOpt())
		assert.Error(t, err)
	})

	t.Run("underdetermined column", func(t *testing.T) {
		tiny, err := dataframe.New([]float64{1.0})
		require.NoError(t, err)
		require.NoError(t, tiny.AddColumn("y", []float64{2.0}))
		_, err = NLS(tiny, expModel, expGuess(t), quietOpt())
		assert.Error(t, err)
	})

	t.Run("parameter names differ across columns", func(t *testing.T) {
		inconsistent := func(x, y []float64) (*params.Parameters, error) {
			p := params.New()
			name := "A"
			if y[0] > 2.5 { // true only for the "second" column
				name = "B"
			}
			if err := p.Add(name, 1.0); err != nil {
				return nil, err
			}
			if err := p.Add("k", -0.3); err != nil {
				return nil, err
			}
			return p, nil
		}
		_, err := NLS(f, expModel, inconsistent, quietOpt())
		require.Error(t, err)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})
}
