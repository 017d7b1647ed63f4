package world

import (
	"fmt"
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/dynamo"
)

// InitialConditions1900 returns the calibrated world of 1900. Food per
// capita and the pollution index are seeded so the first evaluation sees
// plausible values before the sectors have run.
func InitialConditions1900() State {
	var s State
	s.Time = 1900
	s.Population = PopulationState{
		Population:   1.6e9,
		Cohort0to14:  0.60e9,
		Cohort15to44: 0.65e9,
		Cohort45to64: 0.27e9,
		Cohort65Plus: 0.08e9,
	}
	s.Capital = CapitalState{
		IndustrialCapital: 0.2e12,
		ServiceCapital:    0.32e12,
	}
	s.Agriculture = AgricultureState{
		ArableLand:            0.9e9,
		PotentiallyArableLand: 2.3e9,
		FoodPerCapita:         400,
	}
	s.Resources = ResourceState{
		NonrenewableResources: 1.0,
		FractionRemaining:     1.0,
	}
	s.Pollution = PollutionState{
		PersistentPollution: 0.05,
		PollutionIndex:      0.05,
	}
	return s
}

// InitialConditions adapts the 1900 world to a scenario: the clock starts
// at the scenario's start year and the resource endowment is scaled.
func InitialConditions(p *config.Scenario) State {
	s := InitialConditions1900()
	s.Time = p.StartYear
	s.Resources.NonrenewableResources *= p.InitialNNRFraction
	s.Resources.FractionRemaining = math.Min(math.Max(s.Resources.NonrenewableResources, 0), 1)
	return s
}

// Validate checks that s can seed a run. The solver itself does not call it.
func (s State) Validate() error {
	v := s.ToVector()
	if !v.IsValid() || math.IsNaN(s.Time) || math.IsInf(s.Time, 0) {
		return fmt.Errorf("%w: non-finite value", dynamo.ErrInvalidInitial)
	}
	for i, x := range v {
		if x < 0 {
			return fmt.Errorf("%w: %s = %g", dynamo.ErrInvalidInitial, StockNames[i], x)
		}
	}
	sum := v[IdxCohort0to14] + v[IdxCohort15to44] + v[IdxCohort45to64] + v[IdxCohort65Plus]
	if sum <= 0 {
		return fmt.Errorf("%w: population is empty", dynamo.ErrInvalidInitial)
	}
	if math.Abs(sum-s.Population.Population) > 1e-6*sum {
		return fmt.Errorf("%w: cohorts sum to %.4g, population is %.4g", dynamo.ErrInvalidInitial, sum, s.Population.Population)
	}
	return nil
}
