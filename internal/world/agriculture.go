package world

import (
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

const (
	baseLandYield         = 600.0
	totalArableLand       = 3.2e9
	developmentShare      = 0.1
	developmentDelay      = 10.0
	baseErosionRate       = 0.002
	maxProtectionFraction = 0.5
	minDevelopmentCostUSD = 1.0
)

type AgricultureRates struct {
	Arable            float64
	PotentiallyArable float64
}

// FoodRatio is food per capita relative to the subsistence threshold.
func FoodRatio(fpc float64, p *config.Scenario) float64 {
	if p.SubsistenceFoodPerCapita <= 0 {
		return 1
	}
	return fpc / p.SubsistenceFoodPerCapita
}

// Agriculture allocates industrial output to farming, computes yield and
// food, and moves land between the reserve, cultivation and erosion. The
// allocation and yield read food per capita and the pollution index from s
// as given, before they are recomputed.
func Agriculture(s State, p *config.Scenario, t *lookup.Tables) (State, AgricultureRates) {
	pop := math.Max(s.Population.Population, 1)
	io := s.Capital.IndustrialOutput

	allocation := t.IndustryToAgriculture.Eval(FoodRatio(s.Agriculture.FoodPerCapita, p))
	arable := math.Max(s.Agriculture.ArableLand, 1)
	inputs := io * allocation / arable

	yield := baseLandYield *
		t.YieldCapital.Eval(inputs) *
		t.YieldPollution.Eval(s.Pollution.PollutionIndex) *
		p.AgriculturalTechnology
	food := arable * yield

	s.Agriculture.InputsPerHectare = inputs
	s.Agriculture.LandYield = yield
	s.Agriculture.Food = food
	s.Agriculture.FoodPerCapita = food / pop

	reserve := math.Max(s.Agriculture.PotentiallyArableLand, 0)
	developed := clamp(1-reserve/totalArableLand, 0, 1)
	cost := t.DevelopmentCost.Eval(developed)
	investment := io * allocation * developmentShare / math.Max(cost, minDevelopmentCostUSD)
	development := math.Min(investment/developmentDelay, reserve/developmentDelay)

	erosion := arable * baseErosionRate *
		t.ErosionMultiplier.Eval(yield/baseLandYield) *
		(1 - clamp(p.LandProtectionFraction, 0, maxProtectionFraction))

	return s, AgricultureRates{
		Arable:            development - erosion,
		PotentiallyArable: -development,
	}
}
