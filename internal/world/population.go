package world

import (
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

const (
	baseLifeExpectancy = 20.0
	minLifeExpectancy  = 5.0
	maxLifeExpectancy  = 85.0
	minFertility       = 0.5
	maxFertility       = 8.0
	fertileFemaleShare = 0.5
	reproductiveYears  = 30.0
	crowdingReference  = 3.6e9
	familyPlanningFrom = 1900.0
)

// Cohort widths in years, and relative mortality per cohort.
var (
	cohortYears     = [3]float64{15, 30, 20}
	mortalityWeight = [4]float64{0.8, 0.5, 1.0, 3.0}
)

// PopulationRates holds the four cohort derivatives, youngest first.
type PopulationRates [4]float64

// Population computes life expectancy and fertility, then births, deaths
// and aging between cohorts.
func Population(s State, p *config.Scenario, t *lookup.Tables) (State, PopulationRates) {
	pop := math.Max(s.Population.Population, 1)
	foodRatio := FoodRatio(s.Agriculture.FoodPerCapita, p)
	health := s.Capital.ServiceOutputPerCapita * p.HealthInvestmentMultiplier

	le := baseLifeExpectancy *
		t.LifeExpFood.Eval(foodRatio) *
		t.LifeExpHealth.Eval(health) *
		t.LifeExpCrowding.Eval(pop/crowdingReference) *
		t.LifeExpPollution.Eval(s.Pollution.PollutionIndex)

	tfr := t.DesiredFamilySize.Eval(s.Capital.IndustrialOutputPerCapita) *
		t.FamilyPlanning.Eval(p.FamilyPlanningEfficacy*familyPlanningRamp(s.Time, p.FamilyPlanningYear)) *
		t.FoodFertility.Eval(foodRatio)

	c := [4]float64{
		s.Population.Cohort0to14,
		s.Population.Cohort15to44,
		s.Population.Cohort45to64,
		s.Population.Cohort65Plus,
	}

	births := c[1] * fertileFemaleShare * tfr / reproductiveYears
	mortality := 1 / math.Max(le, 1)

	var deaths [4]float64
	total := 0.0
	for i := range c {
		deaths[i] = c[i] * mortality * mortalityWeight[i]
		total += deaths[i]
	}

	var aging [3]float64
	for i := range aging {
		aging[i] = c[i] / cohortYears[i]
	}

	s.Population.LifeExpectancy = clamp(le, minLifeExpectancy, maxLifeExpectancy)
	s.Population.FertilityRate = clamp(tfr, minFertility, maxFertility)
	s.Population.BirthRate = births / pop
	s.Population.DeathRate = total / pop

	return s, PopulationRates{
		births - aging[0] - deaths[0],
		aging[0] - aging[1] - deaths[1],
		aging[1] - aging[2] - deaths[2],
		aging[2] - deaths[3],
	}
}

// familyPlanningRamp rises linearly from 0 in 1900 to 1 at the target year.
func familyPlanningRamp(year, target float64) float64 {
	if target <= familyPlanningFrom {
		return 1
	}
	return clamp((year-familyPlanningFrom)/(target-familyPlanningFrom), 0, 1)
}
