package fit

import (
	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/optimize"
	"github.com/YuminosukeSato/fitgo/pkg/log"
)

// config collects the options shared by the fit entry points.
type config struct {
	weights       []float64
	logResidual   bool
	invertedModel bool
	missing       dataframe.MissingPolicy
	filter        ResidualFilter
	solverOpts    []optimize.Option
	logger        log.Logger
}

// newConfig applies options over the entry point's defaults. NLS and
// PowerLaw differ in their default missing-value policy, so the caller
// supplies it.
func newConfig(defaultPolicy dataframe.MissingPolicy, opts []Option) *config {
	cfg := &config{
		missing: defaultPolicy,
		filter:  ReplaceNonFiniteWithMean,
		logger:  log.GetLoggerWithName("fit"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// mode returns the residual mode label for logging.
func (c *config) mode() string {
	switch {
	case c.logResidual && c.invertedModel:
		return log.ModeLogInverted
	case c.logResidual:
		return log.ModeLog
	case c.invertedModel:
		return log.ModeInverted
	default:
		return log.ModeNormal
	}
}

// Option configures a fit entry point.
type Option func(*config)

// WithWeights attaches a weight series to the residual. It must have one
// entry per table row; each column uses the entries at its kept rows.
func WithWeights(weights []float64) Option {
	return func(c *config) {
		c.weights = weights
	}
}

// WithLogResidual computes the residual in log space,
// log(observed) - log(model), which balances relative errors across decades.
// The observed side must be strictly positive.
func WithLogResidual(enabled bool) Option {
	return func(c *config) {
		c.logResidual = enabled
	}
}

// WithInvertedModel declares the model as expressed in the form x(y): the
// column values act as the independent variable and the index is fitted.
func WithInvertedModel(enabled bool) Option {
	return func(c *config) {
		c.invertedModel = enabled
	}
}

// WithMissingPolicy overrides which entries count as missing when a column
// is cleaned. NLS defaults to dataframe.DropNonFinite, PowerLaw to
// dataframe.DropNaN.
func WithMissingPolicy(policy dataframe.MissingPolicy) Option {
	return func(c *config) {
		c.missing = policy
	}
}

// WithResidualFilter replaces the default ReplaceNonFiniteWithMean residual
// filter. Passing nil disables filtering entirely, so a model producing NaN
// at any point fails that column's fit instead of being smoothed over.
func WithResidualFilter(filter ResidualFilter) Option {
	return func(c *config) {
		c.filter = filter
	}
}

// WithSolverOptions forwards settings to the underlying minimizer, such as
// optimize.WithMaxIterations.
func WithSolverOptions(opts ...optimize.Option) Option {
	return func(c *config) {
		c.solverOpts = opts
	}
}

// WithLogger routes the fit's structured log output to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
