package config

import (
	"errors"
	"fmt"
)

// ErrUnknownParam indicates a parameter name that is not part of Scenario.
var ErrUnknownParam = errors.New("config: unknown parameter")

// Descriptor documents one tunable scenario parameter for editors.
type Descriptor struct {
	Field       string  `json:"field"`
	Label       string  `json:"label"`
	Unit        string  `json:"unit"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Default     float64 `json:"default"`
	Step        float64 `json:"step"`
	Sector      string  `json:"sector"`
	Description string  `json:"description"`
}

type param struct {
	Descriptor
	ref func(s *Scenario) *float64
}

var params = []param{
	{Descriptor{"family_planning_year", "Family Planning Year", "year", 1950, 2100, 2000, 5, "population",
		"Year by which family planning reaches full efficacy."},
		func(s *Scenario) *float64 { return &s.FamilyPlanningYear }},
	{Descriptor{"family_planning_efficacy", "Family Planning Efficacy", "fraction", 0, 1, 0.75, 0.05, "population",
		"Strength of fertility reduction once family planning is in place."},
		func(s *Scenario) *float64 { return &s.FamilyPlanningEfficacy }},
	{Descriptor{"health_investment_multiplier", "Health Investment", "multiplier", 0.5, 3, 1, 0.1, "population",
		"Scales the service output reaching health care."},
		func(s *Scenario) *float64 { return &s.HealthInvestmentMultiplier }},
	{Descriptor{"industrial_depreciation_rate", "Industrial Depreciation", "yr⁻¹", 0.02, 0.1, 0.05, 0.005, "capital",
		"Fraction of industrial capital lost each year."},
		func(s *Scenario) *float64 { return &s.IndustrialDepreciationRate }},
	{Descriptor{"service_depreciation_rate", "Service Depreciation", "yr⁻¹", 0.02, 0.1, 0.05, 0.005, "capital",
		"Fraction of service capital lost each year."},
		func(s *Scenario) *float64 { return &s.ServiceDepreciationRate }},
	{Descriptor{"technology_growth_rate", "Technology Growth", "yr⁻¹", 0, 0.03, 0.002, 0.001, "capital",
		"Annual productivity gain applied after 1970."},
		func(s *Scenario) *float64 { return &s.TechnologyGrowthRate }},
	{Descriptor{"investment_rate", "Investment Rate", "fraction", 0, 0.4, 0.12, 0.01, "capital",
		"Share of industrial output reinvested in industrial capital."},
		func(s *Scenario) *float64 { return &s.InvestmentRate }},
	{Descriptor{"agricultural_technology", "Agricultural Technology", "multiplier", 0.5, 3, 1, 0.1, "agriculture",
		"Scales land yield."},
		func(s *Scenario) *float64 { return &s.AgriculturalTechnology }},
	{Descriptor{"land_protection_fraction", "Land Protection", "fraction", 0, 0.5, 0, 0.05, "agriculture",
		"Fraction of erosion prevented by conservation."},
		func(s *Scenario) *float64 { return &s.LandProtectionFraction }},
	{Descriptor{"subsistence_food_per_capita", "Subsistence Food", "kg/person/yr", 100, 500, 230, 10, "agriculture",
		"Food per person considered the subsistence threshold."},
		func(s *Scenario) *float64 { return &s.SubsistenceFoodPerCapita }},
	{Descriptor{"resource_efficiency", "Resource Efficiency", "multiplier", 1, 5, 1, 0.25, "resources",
		"Divides the resource use per unit of industrial output."},
		func(s *Scenario) *float64 { return &s.ResourceEfficiency }},
	{Descriptor{"initial_nnr_fraction", "Initial Resources", "fraction", 0.1, 2, 1, 0.1, "resources",
		"Initial nonrenewable resource stock relative to the 1900 endowment."},
		func(s *Scenario) *float64 { return &s.InitialNNRFraction }},
	{Descriptor{"pollution_control", "Pollution Control", "fraction", 0, 1, 0, 0.05, "pollution",
		"Fraction of pollution generation abated."},
		func(s *Scenario) *float64 { return &s.PollutionControl }},
}

var paramIndex = func() map[string]int {
	m := make(map[string]int, len(params))
	for i, p := range params {
		m[p.Field] = i
	}
	return m
}()

// Descriptors lists the editable parameters in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(params))
	for i, p := range params {
		out[i] = p.Descriptor
	}
	return out
}

func LookupDescriptor(field string) (Descriptor, bool) {
	i, ok := paramIndex[field]
	if !ok {
		return Descriptor{}, false
	}
	return params[i].Descriptor, true
}

func (s *Scenario) Get(field string) (float64, error) {
	i, ok := paramIndex[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, field)
	}
	return *params[i].ref(s), nil
}

func (s *Scenario) SetParam(field string, value float64) error {
	i, ok := paramIndex[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, field)
	}
	*params[i].ref(s) = value
	return nil
}

func (s *Scenario) GetParams() map[string]float64 {
	out := make(map[string]float64, len(params))
	for _, p := range params {
		out[p.Field] = *p.ref(s)
	}
	return out
}

// Apply sets every entry of values, stopping at the first unknown name.
func (s *Scenario) Apply(values map[string]float64) error {
	for field, v := range values {
		if err := s.SetParam(field, v); err != nil {
			return err
		}
	}
	return nil
}

// CheckRanges reports parameters outside their documented range. The
// solver accepts out-of-range values; this is advisory.
func (s *Scenario) CheckRanges() []error {
	var errs []error
	for _, p := range params {
		v := *p.ref(s)
		if v < p.Min || v > p.Max {
			errs = append(errs, fmt.Errorf("%s = %g outside [%g, %g]", p.Field, v, p.Min, p.Max))
		}
	}
	return errs
}
