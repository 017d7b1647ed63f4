package automation

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

var (
	tables = lookup.MustLoad()
	quiet  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

const batchYAML = `
name: policy comparison
description: three variants
runs:
  - name: baseline
    preset: bau
    end_year: 2000
  - name: green
    preset: bau
    end_year: 2000
    params:
      pollution_control: 0.5
  - name: coarse
    end_year: 2000
    time_step: 2
    integrator: euler
`

func TestLoadAndRunBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(batchYAML), 0644); err != nil {
		t.Fatal(err)
	}

	batch, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(batch.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(batch.Runs))
	}

	outs, err := RunBatch(context.Background(), batch, tables, quiet)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if outs[1].ScenarioID != "green" || outs[1].Params.PollutionControl != 0.5 {
		t.Errorf("override not applied: %+v", outs[1].Params)
	}
	if len(outs[2].States) != 51 {
		t.Errorf("expected 51 samples for a 2-year step, got %d", len(outs[2].States))
	}
	if outs[2].Params.Integrator != "euler" {
		t.Errorf("integrator = %s", outs[2].Params.Integrator)
	}
}

func TestBatchRunErrors(t *testing.T) {
	tests := []struct {
		name string
		run  BatchRun
	}{
		{"unknown preset", BatchRun{Preset: "utopia"}},
		{"unknown param", BatchRun{Params: map[string]float64{"flux": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run.Scenario(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunSweep(t *testing.T) {
	base := config.BusinessAsUsual()
	base.EndYear = 2000

	sweep := &ParameterSweep{
		Base:     base,
		Param:    "industrial_depreciation_rate",
		Min:      -0.5,
		Max:      0.05,
		NumSteps: 2,
	}

	results, err := RunSweep(context.Background(), sweep, tables, quiet)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Diverged || results[0].Err == nil {
		t.Error("negative depreciation should diverge")
	}
	if results[1].Diverged || results[1].Summary.PeakPopulation <= 0 {
		t.Error("default depreciation should complete")
	}
	if math.Abs(results[1].ParamValue-0.05) > 1e-12 {
		t.Errorf("last value %v, want 0.05", results[1].ParamValue)
	}
	if base.IndustrialDepreciationRate != 0.05 {
		t.Error("sweep mutated the base scenario")
	}
}

func TestRunSweepRejectsUnknownParam(t *testing.T) {
	sweep := &ParameterSweep{Base: config.DefaultScenario(), Param: "flux", NumSteps: 3}
	if _, err := RunSweep(context.Background(), sweep, tables, quiet); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultScenario()
	base.EndYear = 1950

	cfg := &MonteCarloConfig{Base: base, Perturbation: 0.1, NumTrials: 5, Seed: 7}
	results, err := RunMonteCarlo(context.Background(), cfg, tables, quiet)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 trials, got %d", len(results))
	}

	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 5 {
		t.Errorf("stats do not add up: %d + %d", stable, unstable)
	}

	again, _ := RunMonteCarlo(context.Background(), cfg, tables, quiet)
	for i := range results {
		if results[i].Params["investment_rate"] != again[i].Params["investment_rate"] {
			t.Error("same seed should give the same trials")
		}
	}
}

func TestRunTune(t *testing.T) {
	tune := &Tune{
		Base:     config.BusinessAsUsual(),
		Param:    "pollution_control",
		Metric:   "max_pollution_index",
		Target:   3,
		MaxEvals: 40,
	}

	res, err := RunTune(tune, tables, quiet)
	if err != nil {
		t.Fatalf("tune failed: %v", err)
	}
	if res.Value < 0 || res.Value > 1 {
		t.Errorf("value %v outside the documented range", res.Value)
	}
	if math.Abs(res.Achieved-3) > 1 {
		t.Errorf("achieved %v, want close to 3", res.Achieved)
	}
	if res.Evaluations == 0 {
		t.Error("no evaluations recorded")
	}
}

func TestRunTuneRejectsUnknownNames(t *testing.T) {
	if _, err := RunTune(&Tune{Base: config.DefaultScenario(), Param: "flux", Metric: "peak_population"}, tables, quiet); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := RunTune(&Tune{Base: config.DefaultScenario(), Param: "pollution_control", Metric: "happiness"}, tables, quiet); err == nil {
		t.Error("expected error for unknown metric")
	}
}
