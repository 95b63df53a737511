package fit_test

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/fitgo/dataframe"
	"github.com/YuminosukeSato/fitgo/fit"
	"github.com/YuminosukeSato/fitgo/params"
)

// ExampleNLS fits a decaying exponential to every column of a table.
func ExampleNLS() {
	// Build a table of y = 2.5*exp(-1.3*x) sampled at 20 points.
	index := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range index {
		x := 0.1 * float64(i+1)
		index[i] = x
		ys[i] = 2.5 * math.Exp(-1.3*x)
	}
	data, err := dataframe.New(index)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := data.AddColumn("decay", ys); err != nil {
		fmt.Println("error:", err)
		return
	}

	// The model and a shared starting point for every column.
	model := func(x float64, p *params.Parameters) float64 {
		return p.Value("A") * math.Exp(p.Value("k")*x)
	}
	start := params.New()
	if err := start.Add("A", 1.0); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := start.Add("k", -0.5); err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := fit.NLS(data, model, fit.Fixed(start))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("A=%.2f k=%.2f\n",
		result.Values.At("decay", "A"),
		result.Values.At("decay", "k"))
	// Output: A=2.50 k=-1.30
}

// ExamplePowerLaw extracts the exponent and amplitude of each column.
func ExamplePowerLaw() {
	index := make([]float64, 10)
	diffusive := make([]float64, 10)
	ballistic := make([]float64, 10)
	for i := range index {
		x := float64(i + 1)
		index[i] = x
		diffusive[i] = 2.0 * math.Pow(x, 0.5)
		ballistic[i] = 3.0 * x
	}
	data, err := dataframe.New(index)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := data.AddColumn("diffusive", diffusive); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := data.AddColumn("ballistic", ballistic); err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := fit.PowerLaw(data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, col := range result.Values.RowLabels() {
		fmt.Printf("%s: n=%.2f A=%.2f\n",
			col,
			result.Values.At(col, "n"),
			result.Values.At(col, "A"))
	}
	// Output:
	// diffusive: n=0.50 A=2.00
	// ballistic: n=1.00 A=3.00
}
