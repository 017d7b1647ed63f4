package config

import (
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStartYear  = 1900.0
	DefaultEndYear    = 2100.0
	DefaultTimeStep   = 1.0
	DefaultIntegrator = "rk4"
)

// Meta identifies a scenario for storage and display.
type Meta struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	ColorHex    string    `yaml:"color_hex,omitempty" json:"color_hex,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty" json:"created_at"`
}

// Scenario is the full parameter set for one run. It is passed by value
// into the solver and never changes while a run is in progress.
type Scenario struct {
	Meta Meta `yaml:"meta" json:"meta"`

	// population policy
	FamilyPlanningYear         float64 `yaml:"family_planning_year" json:"family_planning_year"`
	FamilyPlanningEfficacy     float64 `yaml:"family_planning_efficacy" json:"family_planning_efficacy"`
	HealthInvestmentMultiplier float64 `yaml:"health_investment_multiplier" json:"health_investment_multiplier"`

	// capital and technology
	IndustrialDepreciationRate float64 `yaml:"industrial_depreciation_rate" json:"industrial_depreciation_rate"`
	ServiceDepreciationRate    float64 `yaml:"service_depreciation_rate" json:"service_depreciation_rate"`
	TechnologyGrowthRate       float64 `yaml:"technology_growth_rate" json:"technology_growth_rate"`
	InvestmentRate             float64 `yaml:"investment_rate" json:"investment_rate"`

	// agriculture
	AgriculturalTechnology   float64 `yaml:"agricultural_technology" json:"agricultural_technology"`
	LandProtectionFraction   float64 `yaml:"land_protection_fraction" json:"land_protection_fraction"`
	SubsistenceFoodPerCapita float64 `yaml:"subsistence_food_per_capita" json:"subsistence_food_per_capita"`

	// resources
	ResourceEfficiency float64 `yaml:"resource_efficiency" json:"resource_efficiency"`
	InitialNNRFraction float64 `yaml:"initial_nnr_fraction" json:"initial_nnr_fraction"`

	// pollution
	PollutionControl float64 `yaml:"pollution_control" json:"pollution_control"`

	// solver
	StartYear  float64 `yaml:"start_year" json:"start_year"`
	EndYear    float64 `yaml:"end_year" json:"end_year"`
	TimeStep   float64 `yaml:"time_step" json:"time_step"`
	Integrator string  `yaml:"integrator,omitempty" json:"integrator,omitempty"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Meta: Meta{
			ID:   "default",
			Name: "Default",
		},
		FamilyPlanningYear:         2000,
		FamilyPlanningEfficacy:     0.75,
		HealthInvestmentMultiplier: 1,
		IndustrialDepreciationRate: 0.05,
		ServiceDepreciationRate:    0.05,
		TechnologyGrowthRate:       0.002,
		InvestmentRate:             0.12,
		AgriculturalTechnology:     1,
		LandProtectionFraction:     0,
		SubsistenceFoodPerCapita:   230,
		ResourceEfficiency:         1,
		InitialNNRFraction:         1,
		PollutionControl:           0,
		StartYear:                  DefaultStartYear,
		EndYear:                    DefaultEndYear,
		TimeStep:                   DefaultTimeStep,
		Integrator:                 DefaultIntegrator,
	}
}

// Load reads a YAML scenario. Fields missing from the file keep their
// default values.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	return &c
}

// Steps returns the number of samples a run over the configured horizon
// produces, including the initial condition.
func (s *Scenario) Steps() int {
	return SampleCount(s.StartYear, s.EndYear, s.TimeStep)
}

// StepTolerance is the fraction of a step below which the remaining horizon
// is treated as already reached.
const StepTolerance = 1e-9

// SampleCount is ceil((end-start)/dt) + 1, or 1 for an empty horizon.
func SampleCount(start, end, dt float64) int {
	if !(dt > 0) || !(end > start) {
		return 1
	}
	return int(math.Ceil((end-start)/dt-StepTolerance)) + 1
}
