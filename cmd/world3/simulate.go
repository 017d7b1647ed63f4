package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/world3/internal/analysis"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/export"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/storage"
)

var (
	outputFormat string
	chartPath    string
	saveRun      bool
	summaryEvery float64
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a scenario and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringVar(&outputFormat, "output", "", "write the trajectory to stdout instead of a summary (csv)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a normalized svg chart to this path")
	cmd.Flags().BoolVar(&saveRun, "save", false, "store the run under --data")
	cmd.Flags().Float64Var(&summaryEvery, "every", 10, "summary table interval in years")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	s, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}

	slog.Info("running scenario", "scenario", s.Meta.ID, "start", s.StartYear, "end", s.EndYear, "dt", s.TimeStep)
	start := time.Now()
	out, err := sim.Run(tables, s)
	if err != nil {
		return err
	}
	slog.Debug("scenario finished", "samples", len(out.States), "elapsed", time.Since(start))

	if chartPath != "" {
		if err := writeChart(chartPath, out); err != nil {
			return err
		}
		slog.Info("chart written", "path", chartPath)
	}

	summary := analysis.Summarize(out)
	if saveRun {
		st := storage.New(dataDir, slog.Default())
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(out, summary.Metrics())
		if err != nil {
			return err
		}
		slog.Info("run saved", "id", runID)
	}

	switch outputFormat {
	case "":
	case "csv":
		return storage.WriteCSV(os.Stdout, out.States)
	default:
		return fmt.Errorf("unknown output format %q (want csv)", outputFormat)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s, %s)", out.ScenarioName, s.Integrator, formatSpan(s))))
	if err := printTimeline(out, summaryEvery); err != nil {
		return err
	}
	fmt.Println()
	printSummary(summary)
	return nil
}

func writeChart(path string, out *sim.Output) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.ChartSVG(f, out, export.ChartOptions{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatSpan(s *config.Scenario) string {
	return fmt.Sprintf("%.0f-%.0f, dt %g", s.StartYear, s.EndYear, s.TimeStep)
}

func printTimeline(out *sim.Output, every float64) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "YEAR\tPOP (bn)\tLIFE EXP\tFOOD/CAP\tIO/CAP\tRESOURCES\tPOLLUTION\t")
	for _, st := range analysis.Every(out, every) {
		fmt.Fprintf(w, "%.0f\t%.3f\t%.1f\t%.1f\t%.1f\t%.3f\t%.2f\t\n",
			st.Time,
			st.Population.Population/1e9,
			st.Population.LifeExpectancy,
			st.Agriculture.FoodPerCapita,
			st.Capital.IndustrialOutputPerCapita,
			st.Resources.FractionRemaining,
			st.Pollution.PollutionIndex,
		)
	}
	return w.Flush()
}

func printSummary(s analysis.Summary) {
	fmt.Printf("peak population:   %.3f bn in %.0f\n", s.PeakPopulation/1e9, s.PeakYear)
	fmt.Printf("final population:  %.3f bn\n", s.FinalPopulation/1e9)
	fmt.Printf("peak io/capita:    %.1f in %.0f\n", s.PeakIOPC, s.PeakIOPCYear)
	fmt.Printf("max pollution:     %.2f in %.0f\n", s.MaxPollutionIndex, s.MaxPollutionYear)
	fmt.Printf("resources left:    %.1f%%\n", s.FinalFraction*100)
	fmt.Printf("mean life exp:     %.1f\n", s.MeanLifeExpectancy)
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "check a run against the historical envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveScenario(cmd)
			if err != nil {
				return err
			}
			tables, err := loadTables()
			if err != nil {
				return err
			}
			out, err := sim.Run(tables, s)
			if err != nil {
				return err
			}

			report := analysis.Validate(out)
			fmt.Println(titleStyle.Render("validation: " + out.ScenarioName))
			for _, c := range report.Checks {
				mark := passStyle.Render("PASS")
				if !c.Passed {
					mark = failStyle.Render("FAIL")
				}
				fmt.Printf("  %s  %-20s %s\n", mark, c.Name, mutedStyle.Render(c.Detail))
			}
			if !report.Passed() {
				return fmt.Errorf("%d of %d checks failed", report.Failures(), len(report.Checks))
			}
			return nil
		},
	}
	addScenarioFlags(cmd)
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Meta.ID, p.Meta.Name, p.Meta.Description)
			}
			return w.Flush()
		},
	}
}

func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "list tunable scenario parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tSECTOR\tDEFAULT\tRANGE\tUNIT")
			for _, d := range config.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%g\t[%g, %g]\t%s\n", d.Field, d.Sector, d.Default, d.Min, d.Max, d.Unit)
			}
			return w.Flush()
		},
	}
}
