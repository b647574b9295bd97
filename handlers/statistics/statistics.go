// Package statistics provides leaf statistics tools plus composing handlers
// that build higher moments out of downstream primitives.
package statistics

import (
	"context"
	"fmt"
	"sort"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/provider"
)

// Args carry the input series shared by every statistics tool.
type Args struct {
	Values []float64 `json:"values" jsonschema:"required,minItems=1,description=Numeric input values"`
}

// New creates the leaf statistics handler: mean, median, minimum and
// maximum. It issues no downstream calls.
func New() *provider.Provider {
	p := provider.New("statistics", "0.1.0")

	p.Tool("mean").
		Title("Mean").
		Description("Compute the arithmetic mean of a series").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			var sum float64
			for _, v := range input.Values {
				sum += v
			}
			return sum / float64(len(input.Values)), nil
		})

	p.Tool("median").
		Title("Median").
		Description("Compute the median of a series").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			sorted := append([]float64(nil), input.Values...)
			sort.Float64s(sorted)
			n := len(sorted)
			if n%2 == 1 {
				return sorted[n/2], nil
			}
			return (sorted[n/2-1] + sorted[n/2]) / 2, nil
		})

	p.Tool("minimum").
		Title("Minimum").
		Description("Find the smallest value in a series").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			min := input.Values[0]
			for _, v := range input.Values[1:] {
				if v < min {
					min = v
				}
			}
			return min, nil
		})

	p.Tool("maximum").
		Title("Maximum").
		Description("Find the largest value in a series").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			max := input.Values[0]
			for _, v := range input.Values[1:] {
				if v > max {
					max = v
				}
			}
			return max, nil
		})

	return p
}

// NewVariance creates the variance handler. It composes the downstream mean
// tool: the population variance is the mean squared deviation from that
// mean, computed locally once the nested call returns.
func NewVariance() *provider.Provider {
	p := provider.New("variance", "0.1.0")

	p.Tool("variance").
		Title("Variance").
		Description("Compute the population variance of a series").
		ValidateInput().
		Handler(func(ctx context.Context, input Args) (float64, error) {
			downstream := chain.DownstreamFromContext(ctx)
			if downstream == nil {
				return 0, fmt.Errorf("variance requires a composed pipeline")
			}

			mean, err := downstream.CallToolFloat(ctx, "mean", input)
			if err != nil {
				return 0, err
			}

			var sum float64
			for _, v := range input.Values {
				d := v - mean
				sum += d * d
			}
			return sum / float64(len(input.Values)), nil
		})

	return p
}

// NewStdDev creates the stddev handler. It composes two downstream tools,
// variance and square_root, and owns the final shape of its result.
func NewStdDev() *provider.Provider {
	p := provider.New("stddev", "0.1.0")

	p.Tool("stddev").
		Title("Standard Deviation").
		Description("Compute the population standard deviation of a series").
		ValidateInput().
		Handler(func(ctx context.Context, input Args) (float64, error) {
			downstream := chain.DownstreamFromContext(ctx)
			if downstream == nil {
				return 0, fmt.Errorf("stddev requires a composed pipeline")
			}

			variance, err := downstream.CallToolFloat(ctx, "variance", input)
			if err != nil {
				return 0, err
			}
			return downstream.CallToolFloat(ctx, "square_root", map[string]float64{"value": variance})
		})

	return p
}
