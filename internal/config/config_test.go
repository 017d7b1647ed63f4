package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()

	if s.TimeStep <= 0 {
		t.Error("time step should be positive")
	}
	if s.EndYear <= s.StartYear {
		t.Error("end year should follow start year")
	}
	if s.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", s.Integrator)
	}
	if errs := s.CheckRanges(); len(errs) != 0 {
		t.Errorf("defaults out of range: %v", errs)
	}
}

func TestGetPreset(t *testing.T) {
	s := GetPreset("bau")
	if s == nil {
		t.Fatal("expected preset, got nil")
	}
	if s.FamilyPlanningEfficacy != 0 {
		t.Errorf("expected no family planning, got %f", s.FamilyPlanningEfficacy)
	}
	if s.Meta.Name != "Business as Usual" {
		t.Errorf("unexpected name %q", s.Meta.Name)
	}

	s.InvestmentRate = 0.9
	if GetPreset("bau").InvestmentRate == 0.9 {
		t.Error("presets should be fresh copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if s := GetPreset("nonexistent"); s != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"bau", "stabilized", "technology"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestStabilizedBuildsOnTechnology(t *testing.T) {
	tech := ComprehensiveTechnology()
	stab := StabilizedWorld()

	if stab.ResourceEfficiency != tech.ResourceEfficiency {
		t.Error("stabilized should keep technology resource efficiency")
	}
	if stab.FamilyPlanningYear != 1975 {
		t.Errorf("expected family planning year 1975, got %f", stab.FamilyPlanningYear)
	}
	if stab.Meta.ID != "stabilized" {
		t.Errorf("unexpected id %q", stab.Meta.ID)
	}
}

func TestSetParam(t *testing.T) {
	s := DefaultScenario()

	if err := s.SetParam("pollution_control", 0.4); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if s.PollutionControl != 0.4 {
		t.Errorf("expected 0.4, got %f", s.PollutionControl)
	}

	v, err := s.Get("pollution_control")
	if err != nil || v != 0.4 {
		t.Errorf("Get = %v, %v", v, err)
	}

	if err := s.SetParam("warp_drive", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestDescriptorsMatchDefaults(t *testing.T) {
	s := DefaultScenario()
	got := s.GetParams()

	for _, d := range Descriptors() {
		if d.Min >= d.Max {
			t.Errorf("%s: min %g >= max %g", d.Field, d.Min, d.Max)
		}
		if got[d.Field] != d.Default {
			t.Errorf("%s: default %g, scenario has %g", d.Field, d.Default, got[d.Field])
		}
	}
}

func TestCheckRanges(t *testing.T) {
	s := DefaultScenario()
	s.IndustrialDepreciationRate = -0.5
	s.InvestmentRate = 2

	if errs := s.CheckRanges(); len(errs) != 2 {
		t.Errorf("expected 2 range errors, got %v", errs)
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		dt         float64
		want       int
	}{
		{"century by year", 1900, 2100, 1, 201},
		{"half years", 1900, 2100, 0.5, 401},
		{"uneven", 1900, 2100, 3, 68},
		{"short remainder", 1900, 2099, 3, 68},
		{"invalid", 2000, 1900, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			s.StartYear, s.EndYear, s.TimeStep = tt.start, tt.end, tt.dt
			if got := s.Steps(); got != tt.want {
				t.Errorf("Steps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	s := StabilizedWorld()
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LandProtectionFraction != 0.3 {
		t.Errorf("expected land protection 0.3, got %f", loaded.LandProtectionFraction)
	}
	if loaded.Meta.ColorHex != "#457b9d" {
		t.Errorf("expected color #457b9d, got %s", loaded.Meta.ColorHex)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("investment_rate: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.InvestmentRate != 0.2 {
		t.Errorf("expected 0.2, got %f", s.InvestmentRate)
	}
	if s.SubsistenceFoodPerCapita != 230 {
		t.Errorf("expected default subsistence 230, got %f", s.SubsistenceFoodPerCapita)
	}
}
