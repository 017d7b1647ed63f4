package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/world"
)

// ErrRunNotFound indicates a run id with no directory under the store.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// Store keeps each run in its own directory: metadata.json plus states.csv.
type Store struct {
	baseDir string
	logger  *slog.Logger
}

func New(baseDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	ScenarioID   string             `json:"scenario_id"`
	ScenarioName string             `json:"scenario_name"`
	Timestamp    time.Time          `json:"timestamp"`
	ComputedAt   time.Time          `json:"computed_at"`
	StartYear    float64            `json:"start_year"`
	EndYear      float64            `json:"end_year"`
	TimeStep     float64            `json:"time_step"`
	Integrator   string             `json:"integrator"`
	Steps        int                `json:"steps"`
	Params       config.Scenario    `json:"params"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Save writes out under a new run id and returns that id.
func (s *Store) Save(out *sim.Output, metrics map[string]float64) (string, error) {
	scenario := out.ScenarioID
	if scenario == "" {
		scenario = "run"
	}
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		ScenarioID:   out.ScenarioID,
		ScenarioName: out.ScenarioName,
		Timestamp:    time.Now(),
		ComputedAt:   out.ComputedAt,
		StartYear:    out.Params.StartYear,
		EndYear:      out.Params.EndYear,
		TimeStep:     out.Params.TimeStep,
		Integrator:   out.Params.Integrator,
		Steps:        len(out.States),
		Params:       out.Params,
		Metrics:      metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, out.States); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}

	s.logger.Info("run saved", "run", runID, "samples", len(out.States))
	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Warn("skipping unreadable run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]world.State, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// LoadOutput rebuilds the run as it was returned by the solver.
func (s *Store) LoadOutput(runID string) (*sim.Output, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	states, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}

	out := sim.NewOutput(meta.Params, states)
	out.ComputedAt = meta.ComputedAt
	return out, nil
}

// Latest returns the id of the most recently saved run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no runs saved", ErrRunNotFound)
	}
	return runs[len(runs)-1].ID, nil
}
