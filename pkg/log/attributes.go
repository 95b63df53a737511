// Package log defines standard attribute keys for curve fitting operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in fitgo. Using these standard keys enables better
// log analysis, monitoring, and debugging of fitting workflows.
//
// The attributes are organized into categories:
//   - Fit and Operation Context
//   - Data Shape and Characteristics
//   - Solver Progress
//   - Performance and Quality Metrics
//   - Error Context
//
// These keys follow a hierarchical naming convention (e.g., "fit.column",
// "data.rows") to enable structured log analysis and filtering.

package log

// Fit and Operation Context
// These attributes identify the fit entry point, the model, and the column
// currently being processed.
const (
	// OperationKey specifies the fitting operation being performed.
	// Standard values: "fit", "fit_powerlaw", "minimize", "plot"
	OperationKey = "fit.operation"

	// ColumnKey identifies the table column being fitted.
	// Examples: "trial1", "probe-17"
	ColumnKey = "fit.column"

	// ModelKey names the model function being fitted where one is known.
	// Examples: "powerlaw", "exponential", "custom"
	ModelKey = "fit.model"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "fit", "optimize", "fitplot"
	ComponentKey = "fit.component"

	// ModeKey records the residual mode flags in effect.
	// Examples: "normal", "inverted", "log", "log+inverted"
	ModeKey = "fit.mode"
)

// Data Shape and Characteristics
// These attributes describe the table and the per-column data being processed.
const (
	// RowsKey indicates the number of rows in the input table (the x axis length).
	RowsKey = "data.rows"

	// ColumnsKey indicates the number of data columns (independent trials).
	ColumnsKey = "data.columns"

	// PointsKey indicates the number of usable points in the current column
	// after missing-value removal.
	PointsKey = "data.points"

	// WeightedKey records whether a weight series is applied to the residual.
	WeightedKey = "data.weighted"
)

// Solver Progress
// These attributes capture the state of the external minimizer.
const (
	// ParamsKey indicates the number of parameters passed to the solver.
	ParamsKey = "solver.params"

	// VaryingKey indicates the number of freely varying parameters.
	VaryingKey = "solver.varying"

	// IterationsKey records the solver's configured iteration budget.
	IterationsKey = "solver.iterations"

	// EvaluationsKey records the number of objective evaluations performed.
	EvaluationsKey = "solver.evaluations"
)

// Performance and Quality Metrics
// These attributes capture timing and goodness-of-fit information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ChisqrKey records the chi-square statistic at the optimum.
	ChisqrKey = "metrics.chisqr"

	// RedChiKey records the reduced chi-square (chi-square per degree of freedom).
	RedChiKey = "metrics.redchi"

	// R2ScoreKey records the R² coefficient of determination of the fitted curve.
	R2ScoreKey = "metrics.r2_score"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "EMPTY_DATA", "CONVERGENCE_FAILURE"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValueError", "DomainError", "ConvergenceWarning"
	ErrorTypeKey = "error.type"

	// FailedColumnsKey lists the columns whose fit attempt failed.
	FailedColumnsKey = "fit.failed_columns"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard fitting operations
	OperationFit      = "fit"
	OperationPowerLaw = "fit_powerlaw"
	OperationMinimize = "minimize"
	OperationPlot     = "plot"

	// Standard residual modes
	ModeNormal      = "normal"
	ModeInverted    = "inverted"
	ModeLog         = "log"
	ModeLogInverted = "log+inverted"

	// Standard error codes
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorDomain            = "DOMAIN_ERROR"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
