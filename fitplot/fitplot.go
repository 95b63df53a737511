// Package fitplot renders observed columns and fitted curves with gonum/plot.
//
// Plotting is always explicit: the fit entry points never draw anything, the
// caller hands a table and the curves from a fit result to Plot and decides
// what to do with the figure. Log-scaled axes drop non-renderable points from
// the figure only; the underlying data is never modified.
package fitplot

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/fit"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
	"github.com/YuminosukeSato/fitgo/pkg/log"
)

type config struct {
	title  string
	xLabel string
	yLabel string
	logX   bool
	logY   bool
}

// Option configures a plot.
type Option func(*config)

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithLabels sets the axis labels.
func WithLabels(x, y string) Option {
	return func(c *config) {
		c.xLabel = x
		c.yLabel = y
	}
}

// WithLogX switches the x axis to a logarithmic scale. Points with
// non-positive x are left out of the figure.
func WithLogX() Option {
	return func(c *config) { c.logX = true }
}

// WithLogY switches the y axis to a logarithmic scale. Points with
// non-positive y are left out of the figure.
func WithLogY() Option {
	return func(c *config) { c.logY = true }
}

// Plot draws every column of the frame as a scatter over the shared index and
// every fitted curve as a line, one legend entry per series. fits may be
// empty for a data-only figure; passing curves from a fit result overlays
// them on their columns.
func Plot(data *dataframe.Frame, fits []fit.Curve, opts ...Option) (*plot.Plot, error) {
	if data == nil {
		return nil, errors.NewValueError("Plot", "nil data table")
	}
	if data.NumColumns() == 0 {
		return nil, errors.NewModelError("Plot", "empty table", errors.ErrEmptyData)
	}

	cfg := config{xLabel: "x", yLabel: "y"}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = cfg.xLabel
	p.Y.Label.Text = cfg.yLabel
	if cfg.logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if cfg.logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	index := data.Index()
	for i, name := range data.Columns() {
		col, err := data.Column(name)
		if err != nil {
			return nil, err
		}
		pts := renderable(index, col, cfg)
		if len(pts) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "Plot: scatter for column '%s'", name)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(scatter)
		p.Legend.Add(name, scatter)
	}

	for i, curve := range fits {
		pts := renderable(curve.X, curve.Y, cfg)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "Plot: line for column '%s'", curve.Column)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(curve.Column+" fit", line)
	}

	log.GetLoggerWithName("fitplot").Debug("figure assembled",
		log.OperationKey, log.OperationPlot,
		log.ColumnsKey, data.NumColumns(),
		"curves", len(fits),
	)
	return p, nil
}

// SavePNG writes the figure to path as a PNG.
func SavePNG(p *plot.Plot, path string) error {
	if p == nil {
		return errors.NewValueError("SavePNG", "nil plot")
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "SavePNG: writing '%s'", path)
	}
	return nil
}

// renderable pairs up x and y, keeping only the points the figure can show.
func renderable(xs, ys []float64, cfg config) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if cfg.logX && x <= 0 {
			continue
		}
		if cfg.logY && y <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}
