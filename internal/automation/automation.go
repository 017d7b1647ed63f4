package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/world3/internal/analysis"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/sim"
)

// Batch is a YAML file of scenario variants run together.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun starts from a preset (or the defaults) and overrides parameters.
type BatchRun struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Params     map[string]float64 `yaml:"params"`
	StartYear  float64            `yaml:"start_year"`
	EndYear    float64            `yaml:"end_year"`
	TimeStep   float64            `yaml:"time_step"`
	Integrator string             `yaml:"integrator"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// Scenario builds the full scenario for one run.
func (r BatchRun) Scenario() (*config.Scenario, error) {
	s := config.DefaultScenario()
	if r.Preset != "" {
		if s = config.GetPreset(r.Preset); s == nil {
			return nil, fmt.Errorf("unknown preset %q", r.Preset)
		}
	}
	if err := s.Apply(r.Params); err != nil {
		return nil, err
	}
	if r.StartYear != 0 {
		s.StartYear = r.StartYear
	}
	if r.EndYear != 0 {
		s.EndYear = r.EndYear
	}
	if r.TimeStep != 0 {
		s.TimeStep = r.TimeStep
	}
	if r.Integrator != "" {
		s.Integrator = r.Integrator
	}
	if r.Name != "" {
		s.Meta.ID = r.Name
		s.Meta.Name = r.Name
	}
	return s, nil
}

// RunBatch solves every run concurrently. Any failure fails the batch.
func RunBatch(ctx context.Context, batch *Batch, tables *lookup.Tables, logger *slog.Logger) ([]*sim.Output, error) {
	scenarios := make([]*config.Scenario, 0, len(batch.Runs))
	for i, run := range batch.Runs {
		s, err := run.Scenario()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		scenarios = append(scenarios, s)
	}

	logger.Info("running batch", "name", batch.Name, "runs", len(scenarios))
	return sim.NewEnsemble(tables, logger).Run(ctx, scenarios)
}

// ParameterSweep varies one parameter linearly across a range.
type ParameterSweep struct {
	Base     *config.Scenario
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds one point of a sweep. A diverged run has no summary.
type SweepResult struct {
	ParamValue float64
	Summary    analysis.Summary
	Diverged   bool
	Err        error
}

// RunSweep solves the base scenario once per parameter value. Divergence is
// recorded in the result rather than stopping the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, tables *lookup.Tables, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if _, err := sweep.Base.Get(sweep.Param); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.Min + float64(i)*paramStep
		s := sweep.Base.Clone()
		_ = s.SetParam(sweep.Param, paramVal)

		results = append(results, solveOne(tables, s, paramVal))
		logger.Debug("sweep point", "param", sweep.Param, "value", paramVal, "step", i+1, "of", sweep.NumSteps)
	}

	return results, nil
}

func solveOne(tables *lookup.Tables, s *config.Scenario, value float64) SweepResult {
	out, err := sim.Run(tables, s)
	if err != nil {
		return SweepResult{ParamValue: value, Diverged: true, Err: err}
	}
	return SweepResult{ParamValue: value, Summary: analysis.Summarize(out)}
}

// MonteCarloConfig perturbs every tunable parameter of Base by up to
// ±Perturbation (relative) per trial.
type MonteCarloConfig struct {
	Base         *config.Scenario
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID  int
	Params   map[string]float64
	Summary  analysis.Summary
	Diverged bool
}

// RunMonteCarlo executes trials with randomly perturbed parameters.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, tables *lookup.Tables, logger *slog.Logger) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		s := cfg.Base.Clone()
		for _, d := range config.Descriptors() {
			v, _ := s.Get(d.Field)
			_ = s.SetParam(d.Field, v*(1+(rng.Float64()-0.5)*2*cfg.Perturbation))
		}

		r := solveOne(tables, s, 0)
		results = append(results, MonteCarloResult{
			TrialID:  trial,
			Params:   s.GetParams(),
			Summary:  r.Summary,
			Diverged: r.Diverged,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo progress", "done", trial+1, "trials", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts trials that completed and trials that diverged.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Diverged {
			unstableCount++
		} else {
			stableCount++
		}
	}
	return
}
