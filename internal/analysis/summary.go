package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/world"
)

// Summary condenses a trajectory into the headline figures shown by the CLI
// and stored with saved runs.
type Summary struct {
	ScenarioID         string  `json:"scenario_id"`
	StartYear          float64 `json:"start_year"`
	EndYear            float64 `json:"end_year"`
	PeakPopulation     float64 `json:"peak_population"`
	PeakYear           float64 `json:"peak_year"`
	FinalPopulation    float64 `json:"final_population"`
	PeakIOPC           float64 `json:"peak_industrial_output_per_capita"`
	PeakIOPCYear       float64 `json:"peak_iopc_year"`
	PeakFoodPerCapita  float64 `json:"peak_food_per_capita"`
	MaxPollutionIndex  float64 `json:"max_pollution_index"`
	MaxPollutionYear   float64 `json:"max_pollution_year"`
	FinalFraction      float64 `json:"final_fraction_remaining"`
	MeanLifeExpectancy float64 `json:"mean_life_expectancy"`
}

// Summarize returns a zero Summary for an empty output.
func Summarize(out *sim.Output) Summary {
	s := Summary{ScenarioID: out.ScenarioID}
	if len(out.States) == 0 {
		return s
	}

	pop := series(out.States, "population.population")
	iopc := series(out.States, "capital.industrial_output_per_capita")
	fpc := series(out.States, "agriculture.food_per_capita")
	pollution := series(out.States, "pollution.pollution_index")
	le := series(out.States, "population.life_expectancy")

	final := out.Final()
	s.StartYear = out.Timeline[0]
	s.EndYear = final.Time

	i := floats.MaxIdx(pop)
	s.PeakPopulation, s.PeakYear = pop[i], out.Timeline[i]
	s.FinalPopulation = final.Population.Population

	i = floats.MaxIdx(iopc)
	s.PeakIOPC, s.PeakIOPCYear = iopc[i], out.Timeline[i]
	s.PeakFoodPerCapita = floats.Max(fpc)

	i = floats.MaxIdx(pollution)
	s.MaxPollutionIndex, s.MaxPollutionYear = pollution[i], out.Timeline[i]

	s.FinalFraction = final.Resources.FractionRemaining
	s.MeanLifeExpectancy = stat.Mean(le, nil)
	return s
}

// Metrics flattens the summary for run metadata.
func (s Summary) Metrics() map[string]float64 {
	return map[string]float64{
		"peak_population":          s.PeakPopulation,
		"peak_year":                s.PeakYear,
		"final_population":         s.FinalPopulation,
		"peak_iopc":                s.PeakIOPC,
		"max_pollution_index":      s.MaxPollutionIndex,
		"final_fraction_remaining": s.FinalFraction,
		"mean_life_expectancy":     s.MeanLifeExpectancy,
	}
}

// Every returns the samples falling on multiples of interval years, plus the
// final sample when it is off the grid.
func Every(out *sim.Output, interval float64) []world.State {
	if interval <= 0 {
		return out.States
	}
	var picked []world.State
	for i, s := range out.States {
		offset := s.Time - out.Timeline[0]
		onGrid := math.Abs(offset-interval*math.Round(offset/interval)) < 1e-9
		if onGrid || i == len(out.States)-1 {
			picked = append(picked, s)
		}
	}
	return picked
}

func series(states []world.State, path string) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i], _ = s.Field(path)
	}
	return out
}

// Spread returns the minimum, mean and maximum of values. It panics on an
// empty slice, like the gonum functions it wraps.
func Spread(values []float64) (lo, mean, hi float64) {
	return floats.Min(values), stat.Mean(values, nil), floats.Max(values)
}
