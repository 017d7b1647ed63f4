package world

type field struct {
	name string
	get  func(s *State) float64
}

var fields = []field{
	{"time", func(s *State) float64 { return s.Time }},

	{"population.population", func(s *State) float64 { return s.Population.Population }},
	{"population.cohort_0_14", func(s *State) float64 { return s.Population.Cohort0to14 }},
	{"population.cohort_15_44", func(s *State) float64 { return s.Population.Cohort15to44 }},
	{"population.cohort_45_64", func(s *State) float64 { return s.Population.Cohort45to64 }},
	{"population.cohort_65_plus", func(s *State) float64 { return s.Population.Cohort65Plus }},
	{"population.birth_rate", func(s *State) float64 { return s.Population.BirthRate }},
	{"population.death_rate", func(s *State) float64 { return s.Population.DeathRate }},
	{"population.life_expectancy", func(s *State) float64 { return s.Population.LifeExpectancy }},
	{"population.fertility_rate", func(s *State) float64 { return s.Population.FertilityRate }},

	{"capital.industrial_capital", func(s *State) float64 { return s.Capital.IndustrialCapital }},
	{"capital.service_capital", func(s *State) float64 { return s.Capital.ServiceCapital }},
	{"capital.industrial_output", func(s *State) float64 { return s.Capital.IndustrialOutput }},
	{"capital.industrial_output_per_capita", func(s *State) float64 { return s.Capital.IndustrialOutputPerCapita }},
	{"capital.service_output_per_capita", func(s *State) float64 { return s.Capital.ServiceOutputPerCapita }},

	{"agriculture.arable_land", func(s *State) float64 { return s.Agriculture.ArableLand }},
	{"agriculture.potentially_arable_land", func(s *State) float64 { return s.Agriculture.PotentiallyArableLand }},
	{"agriculture.food", func(s *State) float64 { return s.Agriculture.Food }},
	{"agriculture.food_per_capita", func(s *State) float64 { return s.Agriculture.FoodPerCapita }},
	{"agriculture.land_yield", func(s *State) float64 { return s.Agriculture.LandYield }},
	{"agriculture.agricultural_inputs_per_hectare", func(s *State) float64 { return s.Agriculture.InputsPerHectare }},

	{"resources.nonrenewable_resources", func(s *State) float64 { return s.Resources.NonrenewableResources }},
	{"resources.fraction_remaining", func(s *State) float64 { return s.Resources.FractionRemaining }},

	{"pollution.persistent_pollution", func(s *State) float64 { return s.Pollution.PersistentPollution }},
	{"pollution.pollution_index", func(s *State) float64 { return s.Pollution.PollutionIndex }},
	{"pollution.generation_rate", func(s *State) float64 { return s.Pollution.GenerationRate }},
	{"pollution.assimilation_rate", func(s *State) float64 { return s.Pollution.AssimilationRate }},
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(fields))
	for i, f := range fields {
		m[f.name] = i
	}
	return m
}()

// Field reads a value by its dotted path, e.g. "agriculture.food_per_capita".
func (s State) Field(path string) (float64, bool) {
	i, ok := fieldIndex[path]
	if !ok {
		return 0, false
	}
	return fields[i].get(&s), true
}

// FieldNames lists every readable path in a stable order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}
