package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/world3/internal/analysis"
	"github.com/san-kum/world3/internal/automation"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	tuneMetric string
	tuneTarget float64
	tuneEvals  int
	mcTrials   int
	mcPerturb  float64
	mcSeed     int64
	batchSave  bool
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = config.ListPresets()
			}
			scenarios := make([]*config.Scenario, len(args))
			for i, name := range args {
				if scenarios[i] = config.GetPreset(name); scenarios[i] == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
				}
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			outs, err := sim.NewEnsemble(tables, slog.Default()).Run(ctx, scenarios)
			if err != nil {
				return err
			}
			return printSummaries(outs)
		},
	}
}

func printSummaries(outs []*sim.Output) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPEAK POP\tPEAK YEAR\tFINAL POP\tPEAK IO/CAP\tMAX POLLUTION\tRESOURCES LEFT")
	for _, out := range outs {
		s := analysis.Summarize(out)
		fmt.Fprintf(w, "%s\t%.3f bn\t%.0f\t%.3f bn\t%.1f\t%.2f\t%.1f%%\n",
			out.ScenarioID,
			s.PeakPopulation/1e9,
			s.PeakYear,
			s.FinalPopulation/1e9,
			s.PeakIOPC,
			s.MaxPollutionIndex,
			s.FinalFraction*100,
		)
	}
	return w.Flush()
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and summarize each run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveScenario(cmd)
			if err != nil {
				return err
			}
			desc, ok := config.LookupDescriptor(sweepParam)
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrUnknownParam, sweepParam)
			}
			if !cmd.Flags().Changed("min") {
				sweepMin = desc.Min
			}
			if !cmd.Flags().Changed("max") {
				sweepMax = desc.Max
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
				Base:     base,
				Param:    sweepParam,
				Min:      sweepMin,
				Max:      sweepMax,
				NumSteps: sweepSteps,
			}, tables, slog.Default())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tPEAK POP\tPEAK YEAR\tRESOURCES LEFT\tMAX POLLUTION\n", strings.ToUpper(sweepParam))
			for _, r := range results {
				if r.Diverged {
					fmt.Fprintf(w, "%g\tdiverged\t\t\t%v\n", r.ParamValue, r.Err)
					continue
				}
				fmt.Fprintf(w, "%g\t%.3f bn\t%.0f\t%.1f%%\t%.2f\n",
					r.ParamValue, r.Summary.PeakPopulation/1e9, r.Summary.PeakYear,
					r.Summary.FinalFraction*100, r.Summary.MaxPollutionIndex)
			}
			return w.Flush()
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "param", "pollution_control", "parameter to vary")
	cmd.Flags().Float64Var(&sweepMin, "min", 0, "first value (default: documented minimum)")
	cmd.Flags().Float64Var(&sweepMax, "max", 0, "last value (default: documented maximum)")
	cmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	return cmd
}

func tuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "search one parameter for a target summary metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveScenario(cmd)
			if err != nil {
				return err
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}
			res, err := automation.RunTune(&automation.Tune{
				Base:     base,
				Param:    sweepParam,
				Metric:   tuneMetric,
				Target:   tuneTarget,
				MaxEvals: tuneEvals,
			}, tables, slog.Default())
			if err != nil {
				return err
			}
			fmt.Printf("%s = %.4g gives %s = %.4g (target %.4g, %d runs)\n",
				sweepParam, res.Value, tuneMetric, res.Achieved, tuneTarget, res.Evaluations)
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "param", "pollution_control", "parameter to tune")
	cmd.Flags().StringVar(&tuneMetric, "metric", "max_pollution_index", "summary metric to match")
	cmd.Flags().Float64Var(&tuneTarget, "target", 3, "desired metric value")
	cmd.Flags().IntVar(&tuneEvals, "evals", 60, "maximum simulations")
	return cmd
}

func monteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb every parameter at random and count diverging runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveScenario(cmd)
			if err != nil {
				return err
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Base:         base,
				Perturbation: mcPerturb,
				NumTrials:    mcTrials,
				Seed:         mcSeed,
			}, tables, slog.Default())
			if err != nil {
				return err
			}

			stable, unstable := automation.MonteCarloStats(results)
			peaks := make([]float64, 0, stable)
			for _, r := range results {
				if !r.Diverged {
					peaks = append(peaks, r.Summary.PeakPopulation)
				}
			}
			fmt.Printf("trials: %d  completed: %d  diverged: %d\n", len(results), stable, unstable)
			if len(peaks) > 0 {
				lo, mean, hi := analysis.Spread(peaks)
				fmt.Printf("peak population: %.3f / %.3f / %.3f bn (min / mean / max)\n", lo/1e9, mean/1e9, hi/1e9)
			}
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().IntVar(&mcTrials, "trials", 50, "number of trials")
	cmd.Flags().Float64Var(&mcPerturb, "perturb", 0.1, "maximum relative perturbation")
	cmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run every scenario in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := automation.LoadBatch(args[0])
			if err != nil {
				return fmt.Errorf("failed to load batch: %w", err)
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			outs, err := automation.RunBatch(ctx, batch, tables, slog.Default())
			if err != nil {
				return err
			}

			if batchSave {
				st := storage.New(dataDir, slog.Default())
				if err := st.Init(); err != nil {
					return err
				}
				for _, out := range outs {
					id, err := st.Save(out, analysis.Summarize(out).Metrics())
					if err != nil {
						return err
					}
					slog.Info("run saved", "id", id)
				}
			}
			return printSummaries(outs)
		},
	}
	cmd.Flags().BoolVar(&batchSave, "save", false, "store every run under --data")
	return cmd
}
