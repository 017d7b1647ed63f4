package world

import (
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

const (
	baseCapitalOutputRatio = 3.0
	serviceCapitalOutput   = 1.0
	technologyBaseYear     = 1970.0
	maxExtractionFraction  = 0.95
	// serviceReferenceOutput normalizes industrial output when comparing it
	// against service output per capita.
	serviceReferenceOutput = 3.6e9
)

type CapitalRates struct {
	Industrial float64
	Service    float64
}

// Capital computes industrial output net of resource extraction and splits
// it between reinvestment and services.
func Capital(s State, p *config.Scenario, t *lookup.Tables) (State, CapitalRates) {
	pop := math.Max(s.Population.Population, 1)
	fr := s.Resources.FractionRemaining

	icor := baseCapitalOutputRatio * t.CapitalOutputResources.Eval(fr)
	tech := math.Pow(1+p.TechnologyGrowthRate, math.Max(s.Time-technologyBaseYear, 0))
	extraction := clamp(t.ExtractionCapital.Eval(fr), 0, maxExtractionFraction)

	ic := s.Capital.IndustrialCapital
	sc := s.Capital.ServiceCapital
	io := math.Max(ic*(1-extraction)*tech/icor, 0)

	s.Capital.IndustrialOutput = io
	s.Capital.IndustrialOutputPerCapita = io / pop
	s.Capital.ServiceOutputPerCapita = math.Max(sc/serviceCapitalOutput, 0) / pop

	relative := s.Capital.ServiceOutputPerCapita / math.Max(io/serviceReferenceOutput, 1e-9)
	toServices := t.IndustryToServices.Eval(relative)

	return s, CapitalRates{
		Industrial: io*p.InvestmentRate - ic*p.IndustrialDepreciationRate,
		Service:    io*toServices - sc*p.ServiceDepreciationRate,
	}
}
