package storage

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/world3/internal/world"
)

// Record is one trajectory sample flattened to a CSV row.
type Record struct {
	Year                      float64 `csv:"year"`
	Population                float64 `csv:"population"`
	Cohort0to14               float64 `csv:"cohort_0_14"`
	Cohort15to44              float64 `csv:"cohort_15_44"`
	Cohort45to64              float64 `csv:"cohort_45_64"`
	Cohort65Plus              float64 `csv:"cohort_65_plus"`
	BirthRate                 float64 `csv:"birth_rate"`
	DeathRate                 float64 `csv:"death_rate"`
	LifeExpectancy            float64 `csv:"life_expectancy"`
	FertilityRate             float64 `csv:"fertility_rate"`
	IndustrialCapital         float64 `csv:"industrial_capital"`
	ServiceCapital            float64 `csv:"service_capital"`
	IndustrialOutput          float64 `csv:"industrial_output"`
	IndustrialOutputPerCapita float64 `csv:"industrial_output_per_capita"`
	ServiceOutputPerCapita    float64 `csv:"service_output_per_capita"`
	ArableLand                float64 `csv:"arable_land"`
	PotentiallyArableLand     float64 `csv:"potentially_arable_land"`
	Food                      float64 `csv:"food"`
	FoodPerCapita             float64 `csv:"food_per_capita"`
	LandYield                 float64 `csv:"land_yield"`
	InputsPerHectare          float64 `csv:"agricultural_inputs_per_hectare"`
	NonrenewableResources     float64 `csv:"nonrenewable_resources"`
	FractionRemaining         float64 `csv:"fraction_remaining"`
	PersistentPollution       float64 `csv:"persistent_pollution"`
	PollutionIndex            float64 `csv:"pollution_index"`
	GenerationRate            float64 `csv:"pollution_generation"`
	AssimilationRate          float64 `csv:"pollution_assimilation"`
}

func NewRecord(s world.State) *Record {
	return &Record{
		Year:                      s.Time,
		Population:                s.Population.Population,
		Cohort0to14:               s.Population.Cohort0to14,
		Cohort15to44:              s.Population.Cohort15to44,
		Cohort45to64:              s.Population.Cohort45to64,
		Cohort65Plus:              s.Population.Cohort65Plus,
		BirthRate:                 s.Population.BirthRate,
		DeathRate:                 s.Population.DeathRate,
		LifeExpectancy:            s.Population.LifeExpectancy,
		FertilityRate:             s.Population.FertilityRate,
		IndustrialCapital:         s.Capital.IndustrialCapital,
		ServiceCapital:            s.Capital.ServiceCapital,
		IndustrialOutput:          s.Capital.IndustrialOutput,
		IndustrialOutputPerCapita: s.Capital.IndustrialOutputPerCapita,
		ServiceOutputPerCapita:    s.Capital.ServiceOutputPerCapita,
		ArableLand:                s.Agriculture.ArableLand,
		PotentiallyArableLand:     s.Agriculture.PotentiallyArableLand,
		Food:                      s.Agriculture.Food,
		FoodPerCapita:             s.Agriculture.FoodPerCapita,
		LandYield:                 s.Agriculture.LandYield,
		InputsPerHectare:          s.Agriculture.InputsPerHectare,
		NonrenewableResources:     s.Resources.NonrenewableResources,
		FractionRemaining:         s.Resources.FractionRemaining,
		PersistentPollution:       s.Pollution.PersistentPollution,
		PollutionIndex:            s.Pollution.PollutionIndex,
		GenerationRate:            s.Pollution.GenerationRate,
		AssimilationRate:          s.Pollution.AssimilationRate,
	}
}

func (r *Record) State() world.State {
	return world.State{
		Time: r.Year,
		Population: world.PopulationState{
			Population:     r.Population,
			Cohort0to14:    r.Cohort0to14,
			Cohort15to44:   r.Cohort15to44,
			Cohort45to64:   r.Cohort45to64,
			Cohort65Plus:   r.Cohort65Plus,
			BirthRate:      r.BirthRate,
			DeathRate:      r.DeathRate,
			LifeExpectancy: r.LifeExpectancy,
			FertilityRate:  r.FertilityRate,
		},
		Capital: world.CapitalState{
			IndustrialCapital:         r.IndustrialCapital,
			ServiceCapital:            r.ServiceCapital,
			IndustrialOutput:          r.IndustrialOutput,
			IndustrialOutputPerCapita: r.IndustrialOutputPerCapita,
			ServiceOutputPerCapita:    r.ServiceOutputPerCapita,
		},
		Agriculture: world.AgricultureState{
			ArableLand:            r.ArableLand,
			PotentiallyArableLand: r.PotentiallyArableLand,
			Food:                  r.Food,
			FoodPerCapita:         r.FoodPerCapita,
			LandYield:             r.LandYield,
			InputsPerHectare:      r.InputsPerHectare,
		},
		Resources: world.ResourceState{
			NonrenewableResources: r.NonrenewableResources,
			FractionRemaining:     r.FractionRemaining,
		},
		Pollution: world.PollutionState{
			PersistentPollution: r.PersistentPollution,
			PollutionIndex:      r.PollutionIndex,
			GenerationRate:      r.GenerationRate,
			AssimilationRate:    r.AssimilationRate,
		},
	}
}

// WriteCSV writes states as CSV with a header row.
func WriteCSV(w io.Writer, states []world.State) error {
	records := make([]*Record, len(states))
	for i, s := range states {
		records[i] = NewRecord(s)
	}
	return gocsv.Marshal(records, w)
}

func ReadCSV(r io.Reader) ([]world.State, error) {
	var records []*Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, err
	}
	states := make([]world.State, len(records))
	for i, rec := range records {
		states[i] = rec.State()
	}
	return states, nil
}
