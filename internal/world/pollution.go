package world

import (
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

// Generation is expressed relative to reference activity levels so that the
// 1970 world produces roughly one pollution unit.
const (
	pollutionUnit             = 1.0
	referenceIOPC             = 300.0
	referenceInputsPerHa      = 360.0
	referencePopulation       = 3.6e9
	referenceArableLand       = 1.5e9
	industrialGenerationRate  = 0.045
	agricultureGenerationRate = 0.015
)

// Pollution returns generation minus assimilation. Assimilation slows as
// the index rises because the assimilation time grows with it.
func Pollution(s State, p *config.Scenario, t *lookup.Tables) (State, float64) {
	pop := math.Max(s.Population.Population, 1)
	stock := math.Max(s.Pollution.PersistentPollution, 0)
	index := stock / pollutionUnit

	industrial := t.PollutionIndustry.Eval(s.Capital.IndustrialOutputPerCapita/referenceIOPC) *
		pop / referencePopulation * industrialGenerationRate
	agricultural := t.PollutionAgriculture.Eval(s.Agriculture.InputsPerHectare/referenceInputsPerHa) *
		s.Agriculture.ArableLand / referenceArableLand * agricultureGenerationRate

	generation := (industrial + agricultural) * (1 - clamp(p.PollutionControl, 0, 1))
	assimilation := stock / t.AssimilationTime.Eval(index)

	s.Pollution.PollutionIndex = index
	s.Pollution.GenerationRate = generation
	s.Pollution.AssimilationRate = assimilation
	return s, generation - assimilation
}
