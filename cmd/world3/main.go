package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
)

var (
	dataDir  string
	logLevel string

	// scenario selection, shared by every command that solves
	preset     string
	configFile string
	startYear  float64
	endYear    float64
	dt         float64
	integrator string
	overrides  map[string]string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "world3",
		Short:         "world3 global dynamics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", envOr("WORLD3_DATA", ".world3"), "run storage directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("WORLD3_LOG_LEVEL", "info"), "debug, info, warn or error")

	rootCmd.AddCommand(
		simulateCmd(),
		validateCmd(),
		presetsCmd(),
		paramsCmd(),
		listCmd(),
		plotCmd(),
		exportCSVCmd(),
		liveCmd(),
		compareCmd(),
		sweepCmd(),
		tuneCmd(),
		monteCarloCmd(),
		batchCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// addScenarioFlags registers the flags read by resolveScenario. The flag
// variables are shared between commands, so defaults must agree.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "bau", "start from a preset (bau, technology, stabilized)")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml); overrides the preset")
	cmd.Flags().Float64Var(&startYear, "start", config.DefaultStartYear, "start year")
	cmd.Flags().Float64Var(&endYear, "end", config.DefaultEndYear, "end year")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "time step in years")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "rk4 or euler")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "parameter override, e.g. --set pollution_control=0.5")
}

// resolveScenario builds the scenario from preset, then config file, then
// any flag the user set explicitly.
func resolveScenario(cmd *cobra.Command) (*config.Scenario, error) {
	s := config.DefaultScenario()
	if preset != "" {
		if s = config.GetPreset(preset); s == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		s.StartYear = startYear
	}
	if flags.Changed("end") {
		s.EndYear = endYear
	}
	if flags.Changed("dt") {
		s.TimeStep = dt
	}
	if flags.Changed("integrator") {
		s.Integrator = integrator
	}

	values, err := parseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(values); err != nil {
		return nil, err
	}
	for _, err := range s.CheckRanges() {
		slog.Warn("parameter outside documented range", "error", err)
	}
	return s, nil
}

func parseOverrides(raw map[string]string) (map[string]float64, error) {
	values := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %q is not a number", k, v)
		}
		values[k] = f
	}
	return values, nil
}

func loadTables() (*lookup.Tables, error) {
	tables, err := lookup.Load()
	if err != nil {
		return nil, fmt.Errorf("loading lookup tables: %w", err)
	}
	return tables, nil
}
