package automation

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/san-kum/world3/internal/analysis"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

// divergencePenalty is the objective value of a run that did not complete.
const divergencePenalty = 1e12

// Tune searches one parameter, within its documented range, for the value
// that brings a summary metric closest to Target.
type Tune struct {
	Base     *config.Scenario
	Param    string
	Metric   string
	Target   float64
	MaxEvals int
}

type TuneResult struct {
	Value       float64
	Achieved    float64
	Evaluations int
}

func RunTune(tune *Tune, tables *lookup.Tables, logger *slog.Logger) (*TuneResult, error) {
	desc, ok := config.LookupDescriptor(tune.Param)
	if !ok {
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownParam, tune.Param)
	}
	if _, ok := (analysis.Summary{}).Metrics()[tune.Metric]; !ok {
		return nil, fmt.Errorf("unknown metric %q", tune.Metric)
	}

	span := desc.Max - desc.Min
	denormalize := func(x float64) float64 {
		return desc.Min + clamp01(x)*span
	}

	best := TuneResult{Achieved: math.NaN()}
	bestCost := math.Inf(1)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			value := denormalize(x[0])
			s := tune.Base.Clone()
			_ = s.SetParam(tune.Param, value)

			r := solveOne(tables, s, value)
			best.Evaluations++
			if r.Diverged {
				return divergencePenalty
			}

			achieved := r.Summary.Metrics()[tune.Metric]
			cost := (achieved - tune.Target) * (achieved - tune.Target)
			if cost < bestCost {
				bestCost = cost
				best.Value = value
				best.Achieved = achieved
			}
			logger.Debug("tune evaluation", "param", tune.Param, "value", value, "metric", achieved)
			return cost
		},
	}

	maxEvals := tune.MaxEvals
	if maxEvals <= 0 {
		maxEvals = 60
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0,
	}

	start := (desc.Default - desc.Min) / span
	_, err := optimize.Minimize(problem, []float64{start}, settings, &optimize.NelderMead{})
	if err != nil {
		logger.Debug("optimization ended", "err", err)
	}
	if math.IsNaN(best.Achieved) {
		return nil, fmt.Errorf("every evaluation of %s diverged", tune.Param)
	}

	return &best, nil
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
