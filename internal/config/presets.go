package config

import "sort"

func BusinessAsUsual() *Scenario {
	s := DefaultScenario()
	s.Meta = Meta{
		ID:          "bau",
		Name:        "Business as Usual",
		Description: "Historical policies continue unchanged; no family planning effort.",
		ColorHex:    "#e63946",
	}
	s.FamilyPlanningEfficacy = 0
	return s
}

func ComprehensiveTechnology() *Scenario {
	s := DefaultScenario()
	s.Meta = Meta{
		ID:          "technology",
		Name:        "Comprehensive Technology",
		Description: "Aggressive resource efficiency, pollution control and agricultural yield gains.",
		ColorHex:    "#2a9d8f",
	}
	s.ResourceEfficiency = 4
	s.PollutionControl = 0.8
	s.AgriculturalTechnology = 2
	s.TechnologyGrowthRate = 0.02
	return s
}

func StabilizedWorld() *Scenario {
	s := ComprehensiveTechnology()
	s.Meta = Meta{
		ID:          "stabilized",
		Name:        "Stabilized World",
		Description: "Technology paired with early family planning and land protection.",
		ColorHex:    "#457b9d",
	}
	s.TechnologyGrowthRate = 0.015
	s.FamilyPlanningEfficacy = 0.95
	s.FamilyPlanningYear = 1975
	s.LandProtectionFraction = 0.3
	return s
}

// Presets maps preset ids to their constructors.
var Presets = map[string]func() *Scenario{
	"bau":        BusinessAsUsual,
	"technology": ComprehensiveTechnology,
	"stabilized": StabilizedWorld,
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
