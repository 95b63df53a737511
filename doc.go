// Package fitgo provides batch nonlinear least-squares curve fitting for Go,
// designed for analysis pipelines that fit the same model to many data series
// at once.
//
// fitgo takes a table of columns sharing one x axis, fits a user-supplied
// model to every column independently, and collects the fitted parameters,
// standard errors, fitted curves and per-column statistics into result tables
// keyed by column name. One bad column never aborts the batch: it is recorded
// and warned, and the remaining columns proceed.
//
// # Features
//
// - Batch Fitting: one call fits every column of a table
// - Bounded Parameters: box constraints via smooth internal transforms
// - Standard Errors: covariance estimates from the Jacobian at the optimum
// - Power-Law Shortcut: closed-form log-log regression, no iterative solver
// - Robust Error Handling: invalid input aborts, bad columns are isolated
//
// # Installation
//
// Install fitgo using go get:
//
//	go get github.com/YuminosukeSato/fitgo
//
// # Quick Start
//
// Here's a simple example fitting a decaying exponential:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "math"
//
//	    "github.com/YuminosukeSato/fitgo/dataframe"
//	    "github.com/YuminosukeSato/fitgo/fit"
//	    "github.com/YuminosukeSato/fitgo/models"
//	)
//
//	func main() {
//	    // Create a table of y = 2.5*exp(-1.3*x)
//	    index := make([]float64, 20)
//	    ys := make([]float64, 20)
//	    for i := range index {
//	        index[i] = 0.1 * float64(i+1)
//	        ys[i] = 2.5 * math.Exp(-1.3*index[i])
//	    }
//	    data, err := dataframe.New(index)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := data.AddColumn("decay", ys); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Fit the ready-made exponential model to every column
//	    result, err := fit.NLS(data, models.Exponential, models.GuessExponential)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Printf("A=%.2f k=%.2f\n",
//	        result.Values.At("decay", "A"),
//	        result.Values.At("decay", "k"))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - dataframe: indexed numeric tables and missing-value policies
//   - params: named parameters with bounds and vary flags
//   - optimize: bounded Levenberg-Marquardt minimization
//   - fit: batch fitting entry points (NLS, PowerLaw)
//   - models: ready-made model functions and guess factories
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R²)
//   - fitplot: gonum/plot rendering of data and fitted curves
//
// # Custom Models
//
// Any function over named parameters can be fitted:
//
//	model := func(x float64, p *params.Parameters) float64 {
//	    return p.Value("A") * math.Pow(x, p.Value("n"))
//	}
//	start := params.New()
//	start.Add("A", 1.0, params.WithMin(0))
//	start.Add("n", 1.0)
//	result, err := fit.NLS(data, model, fit.Fixed(start))
//
// # Contributing
//
// Contributions are welcome! Please see our GitHub repository:
// https://github.com/YuminosukeSato/fitgo
//
// # License
//
// fitgo is released under the MIT License.
package fitgo
