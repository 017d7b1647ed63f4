package world

import (
	"math"

	"github.com/san-kum/world3/internal/dynamo"
)

// Stock order within a Vector.
const (
	IdxCohort0to14 = iota
	IdxCohort15to44
	IdxCohort45to64
	IdxCohort65Plus
	IdxIndustrialCapital
	IdxServiceCapital
	IdxArableLand
	IdxPotentiallyArableLand
	IdxNonrenewableResources
	IdxPersistentPollution
)

// StockNames lists the field path of every stock in vector order.
var StockNames = [dynamo.NumStocks]string{
	"population.cohort_0_14",
	"population.cohort_15_44",
	"population.cohort_45_64",
	"population.cohort_65_plus",
	"capital.industrial_capital",
	"capital.service_capital",
	"agriculture.arable_land",
	"agriculture.potentially_arable_land",
	"resources.nonrenewable_resources",
	"pollution.persistent_pollution",
}

type PopulationState struct {
	Population     float64 `json:"population"`
	Cohort0to14    float64 `json:"cohort_0_14"`
	Cohort15to44   float64 `json:"cohort_15_44"`
	Cohort45to64   float64 `json:"cohort_45_64"`
	Cohort65Plus   float64 `json:"cohort_65_plus"`
	BirthRate      float64 `json:"birth_rate"`
	DeathRate      float64 `json:"death_rate"`
	LifeExpectancy float64 `json:"life_expectancy"`
	FertilityRate  float64 `json:"fertility_rate"`
}

type CapitalState struct {
	IndustrialCapital         float64 `json:"industrial_capital"`
	ServiceCapital            float64 `json:"service_capital"`
	IndustrialOutput          float64 `json:"industrial_output"`
	IndustrialOutputPerCapita float64 `json:"industrial_output_per_capita"`
	ServiceOutputPerCapita    float64 `json:"service_output_per_capita"`
}

type AgricultureState struct {
	ArableLand            float64 `json:"arable_land"`
	PotentiallyArableLand float64 `json:"potentially_arable_land"`
	Food                  float64 `json:"food"`
	FoodPerCapita         float64 `json:"food_per_capita"`
	LandYield             float64 `json:"land_yield"`
	InputsPerHectare      float64 `json:"agricultural_inputs_per_hectare"`
}

type ResourceState struct {
	NonrenewableResources float64 `json:"nonrenewable_resources"`
	FractionRemaining     float64 `json:"fraction_remaining"`
}

type PollutionState struct {
	PersistentPollution float64 `json:"persistent_pollution"`
	PollutionIndex      float64 `json:"pollution_index"`
	GenerationRate      float64 `json:"generation_rate"`
	AssimilationRate    float64 `json:"assimilation_rate"`
}

// State is one snapshot of the world. Only the ten stocks are integrated;
// every other field is derived from them by the sector functions.
//
// Units: people, 1968 USD of capital, hectares, fraction of the 1900
// resource endowment, and pollution relative to 1970 levels.
type State struct {
	Time        float64          `json:"time"`
	Population  PopulationState  `json:"population"`
	Capital     CapitalState     `json:"capital"`
	Agriculture AgricultureState `json:"agriculture"`
	Resources   ResourceState    `json:"resources"`
	Pollution   PollutionState   `json:"pollution"`
}

func (s State) ToVector() dynamo.Vector {
	return dynamo.Vector{
		s.Population.Cohort0to14,
		s.Population.Cohort15to44,
		s.Population.Cohort45to64,
		s.Population.Cohort65Plus,
		s.Capital.IndustrialCapital,
		s.Capital.ServiceCapital,
		s.Agriculture.ArableLand,
		s.Agriculture.PotentiallyArableLand,
		s.Resources.NonrenewableResources,
		s.Pollution.PersistentPollution,
	}
}

// FromVector builds a state holding only stocks. Negative stocks are clamped
// to zero and the fraction remaining is derived; all other auxiliaries are
// zero until the sectors run.
func FromVector(t float64, v dynamo.Vector) State {
	for i := range v {
		v[i] = math.Max(v[i], 0)
	}
	s := stocksOnly(t, v)
	s.Population.Population = v[IdxCohort0to14] + v[IdxCohort15to44] + v[IdxCohort45to64] + v[IdxCohort65Plus]
	s.Resources.FractionRemaining = math.Min(v[IdxNonrenewableResources], 1)
	return s
}

// stocksOnly places v into a zero state without clamping. Rate states use it
// because derivatives may be negative.
func stocksOnly(t float64, v dynamo.Vector) State {
	var s State
	s.Time = t
	s.Population.Cohort0to14 = v[IdxCohort0to14]
	s.Population.Cohort15to44 = v[IdxCohort15to44]
	s.Population.Cohort45to64 = v[IdxCohort45to64]
	s.Population.Cohort65Plus = v[IdxCohort65Plus]
	s.Capital.IndustrialCapital = v[IdxIndustrialCapital]
	s.Capital.ServiceCapital = v[IdxServiceCapital]
	s.Agriculture.ArableLand = v[IdxArableLand]
	s.Agriculture.PotentiallyArableLand = v[IdxPotentiallyArableLand]
	s.Resources.NonrenewableResources = v[IdxNonrenewableResources]
	s.Pollution.PersistentPollution = v[IdxPersistentPollution]
	return s
}

// Add sums the stocks of s and o. Auxiliaries of the result are zero and
// carry no meaning.
func (s State) Add(o State) State {
	return stocksOnly(s.Time, s.ToVector().Add(o.ToVector()))
}

// Scale multiplies the stocks of s by f.
func (s State) Scale(f float64) State {
	return stocksOnly(s.Time, s.ToVector().Scale(f))
}
