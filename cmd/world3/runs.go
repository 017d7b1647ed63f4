package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/world3/internal/export"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/storage"
	"github.com/san-kum/world3/internal/viz"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir, slog.Default()).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tYEARS\tDT\tINTEG\tPEAK POP")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f-%.0f\t%g\t%s\t%.3f bn\n",
					run.ID,
					run.ScenarioID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.StartYear, run.EndYear,
					run.TimeStep,
					run.Integrator,
					run.Metrics["peak_population"]/1e9,
				)
			}
			return w.Flush()
		},
	}
}

// outputFor loads a saved run when one is named, the latest run for
// "latest", and otherwise solves the scenario given by flags.
func outputFor(cmd *cobra.Command, args []string) (*sim.Output, error) {
	if len(args) == 1 {
		st := storage.New(dataDir, slog.Default())
		runID := args[0]
		if runID == "latest" {
			id, err := st.Latest()
			if err != nil {
				return nil, err
			}
			runID = id
		}
		return st.LoadOutput(runID)
	}

	s, err := resolveScenario(cmd)
	if err != nil {
		return nil, err
	}
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	return sim.Run(tables, s)
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot key indicators of a saved run or a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := outputFor(cmd, args)
			if err != nil {
				return err
			}
			if len(out.States) < 2 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("scenario: %s\n", out.ScenarioName)
			fmt.Printf("samples: %d (%.0f-%.0f)\n\n", len(out.States), out.Timeline[0], out.Timeline[len(out.Timeline)-1])

			for _, line := range export.DefaultLines {
				data, err := out.Series(line.Path)
				if err != nil {
					return err
				}
				graph := asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(line.Label),
				)
				fmt.Println(graph)
				fmt.Println()
			}
			return nil
		},
	}
	addScenarioFlags(cmd)
	return cmd
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir, slog.Default())
			states, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			if len(states) == 0 {
				return fmt.Errorf("no data to export")
			}
			return storage.WriteCSV(os.Stdout, states)
		},
	}
}

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := outputFor(cmd, args)
			if err != nil {
				return err
			}
			m, err := viz.NewReplay(out)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(*m, tea.WithAltScreen()).Run()
			return err
		},
	}
	addScenarioFlags(cmd)
	return cmd
}
