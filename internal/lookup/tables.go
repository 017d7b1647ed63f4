package lookup

import "sort"

// Tables holds every calibrated curve the world model reads. It is built
// once and shared read-only by all runs.
type Tables struct {
	// population
	LifeExpFood            *Table
	LifeExpHealth          *Table
	LifeExpCrowding        *Table
	LifeExpPollution       *Table
	DesiredFamilySize      *Table
	FamilyPlanning         *Table
	FractionServicesHealth *Table

	// capital
	CapitalOutputResources *Table
	IndustryToAgriculture  *Table
	IndustryToServices     *Table
	JobsPerCapital         *Table
	LaborParticipation     *Table

	// agriculture
	YieldCapital      *Table
	YieldPollution    *Table
	ErosionMultiplier *Table
	DevelopmentCost   *Table
	FoodFertility     *Table

	// resources
	ExtractionCapital *Table

	// pollution
	PollutionIndustry    *Table
	PollutionAgriculture *Table
	AssimilationTime     *Table

	byName map[string]*Table
}

type curve struct {
	dst  **Table
	name string
	x, y []float64
}

// Load builds the table set from the embedded calibration points.
func Load() (*Tables, error) {
	t := &Tables{}
	tenths := []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1}

	curves := []curve{
		{&t.LifeExpFood, "life_exp_multiplier_food",
			[]float64{0, 1, 2, 3, 4, 5},
			[]float64{0, 1, 1.43, 1.5, 1.5, 1.5}},
		{&t.LifeExpHealth, "life_exp_multiplier_health",
			[]float64{0, 200, 400, 600, 800, 1000},
			[]float64{.5, .76, 1.15, 1.55, 1.78, 2.0}},
		{&t.LifeExpCrowding, "life_exp_multiplier_crowding",
			[]float64{0, .5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
			[]float64{1.5, 1.4, 1.3, 1.2, 1.1, 1.0, .9, .8, .7, .6, .5}},
		{&t.LifeExpPollution, "life_exp_multiplier_pollution",
			[]float64{0, 10, 20, 30, 40, 50, 60, 70, 80},
			[]float64{1, .99, .97, .95, .9, .85, .75, .65, .55}},
		{&t.DesiredFamilySize, "desired_family_size",
			[]float64{0, 400, 800, 1200, 1600},
			[]float64{5, 4, 3, 2.1, 1.9}},
		{&t.FamilyPlanning, "family_planning_multiplier",
			[]float64{0, .25, .5, .75, 1},
			[]float64{1, .9, .75, .55, .4}},
		{&t.FractionServicesHealth, "fraction_services_health",
			[]float64{0, .5, 1, 1.5, 2},
			[]float64{.3, .35, .4, .45, .5}},

		{&t.CapitalOutputResources, "capital_output_ratio_resources",
			tenths,
			[]float64{4, 3.2, 2.6, 2, 1.6, 1.25, .9, .75, .62, .55, .5}},
		{&t.IndustryToAgriculture, "industrial_fraction_to_agriculture",
			[]float64{0, .5, 1, 1.5, 2, 2.5},
			[]float64{.4, .25, .15, .1, .07, .05}},
		{&t.IndustryToServices, "industrial_fraction_to_services",
			[]float64{0, .5, 1, 1.5, 2},
			[]float64{.3, .25, .2, .15, .12}},
		{&t.JobsPerCapital, "jobs_per_capital",
			[]float64{0, .5, 1, 2, 3, 4},
			[]float64{.0007, .0014, .0017, .0018, .0019, .002}},
		{&t.LaborParticipation, "labor_force_participation",
			[]float64{.5, .6, .7, .8},
			[]float64{.5, .55, .6, .65}},

		{&t.YieldCapital, "land_yield_multiplier_capital",
			[]float64{0, 40, 80, 120, 160, 200, 240, 280, 320, 360, 400},
			[]float64{1, 3, 4.5, 5, 5.3, 5.6, 5.9, 6.1, 6.35, 6.6, 6.9}},
		{&t.YieldPollution, "land_yield_multiplier_pollution",
			[]float64{0, 10, 20, 30, 40, 50, 60},
			[]float64{1.2, 1, .85, .75, .65, .55, .5}},
		{&t.ErosionMultiplier, "land_erosion_multiplier",
			[]float64{0, .25, .5, .75, 1, 1.25, 1.5, 1.75, 2},
			[]float64{0, .1, .3, .5, .7, 1, 1.5, 2, 2.5}},
		{&t.DevelopmentCost, "land_development_cost",
			tenths,
			[]float64{100, 117, 137, 161, 192, 232, 282, 344, 418, 507, 616}},
		{&t.FoodFertility, "food_fertility_multiplier",
			[]float64{0, .5, 1, 1.5, 2},
			[]float64{0, .6, 1, 1.05, 1.1}},

		{&t.ExtractionCapital, "capital_fraction_resource_extraction",
			tenths,
			[]float64{1, .9, .7, .5, .4, .3, .2, .14, .08, .04, 0}},

		{&t.PollutionIndustry, "pollution_generation_industry",
			[]float64{0, 1, 2, 3, 4, 5},
			[]float64{0, 1, 1.5, 1.9, 2.16, 2.36}},
		{&t.PollutionAgriculture, "pollution_generation_agriculture",
			[]float64{0, 1, 2, 3, 4},
			[]float64{0, 1, 1.7, 2.2, 2.5}},
		{&t.AssimilationTime, "pollution_assimilation_time",
			[]float64{0, 10, 20, 30, 40, 50, 60},
			[]float64{20, 45, 90, 150, 220, 320, 480}},
	}

	t.byName = make(map[string]*Table, len(curves))
	for _, c := range curves {
		tbl, err := New(c.name, c.x, c.y)
		if err != nil {
			return nil, err
		}
		*c.dst = tbl
		t.byName[c.name] = tbl
	}
	return t, nil
}

// MustLoad panics when the embedded calibration data is malformed.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tables) Get(name string) (*Table, bool) {
	tbl, ok := t.byName[name]
	return tbl, ok
}

// All returns every curve sorted by name.
func (t *Tables) All() []*Table {
	out := make([]*Table, 0, len(t.byName))
	for _, tbl := range t.byName {
		out = append(out, tbl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
