package world

import (
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

// depletionCoefficient converts person-dollars of industrial output into
// fractions of the 1900 endowment per year.
const depletionCoefficient = 3.0e-15

// Resources derives the fraction remaining and returns the depletion rate,
// which is never positive. Extraction uses the industrial output per capita
// already on s; capital runs after this sector.
func Resources(s State, p *config.Scenario, _ *lookup.Tables) (State, float64) {
	s.Resources.FractionRemaining = clamp(s.Resources.NonrenewableResources, 0, 1)

	pop := s.Population.Population
	if pop <= 0 {
		return s, 0
	}
	iopc := math.Max(s.Capital.IndustrialOutputPerCapita, 0)
	return s, -(pop * iopc * depletionCoefficient / p.ResourceEfficiency)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
