package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/sim"
)

var (
	ErrScenarioNotFound = errors.New("server: scenario not found")
	ErrPresetReadOnly   = errors.New("server: preset scenarios cannot be modified")
	ErrMissingID        = errors.New("server: scenario id is required")
)

// Scenario is a stored parameter set together with its most recent run.
type Scenario struct {
	Params     config.Scenario `json:"params"`
	IsPreset   bool            `json:"is_preset"`
	LastOutput *sim.Output     `json:"last_output"`
}

// ScenarioSummary is the list view of a Scenario.
type ScenarioSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorHex    string `json:"color_hex"`
	IsPreset    bool   `json:"is_preset"`
}

func (s *Scenario) summary() ScenarioSummary {
	return ScenarioSummary{
		ID:          s.Params.Meta.ID,
		Name:        s.Params.Meta.Name,
		Description: s.Params.Meta.Description,
		ColorHex:    s.Params.Meta.ColorHex,
		IsPreset:    s.IsPreset,
	}
}

// ScenarioStore is the in-memory scenario table shared by all handlers.
type ScenarioStore struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
}

// NewScenarioStore returns a store seeded with every preset.
func NewScenarioStore() *ScenarioStore {
	st := &ScenarioStore{scenarios: make(map[string]*Scenario)}
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		st.scenarios[p.Meta.ID] = &Scenario{Params: *p, IsPreset: true}
	}
	return st
}

// List returns summaries ordered by id; presetsOnly filters out user scenarios.
func (st *ScenarioStore) List(presetsOnly bool) []ScenarioSummary {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]ScenarioSummary, 0, len(st.scenarios))
	for _, s := range st.scenarios {
		if presetsOnly && !s.IsPreset {
			continue
		}
		out = append(out, s.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of the stored scenario.
func (st *ScenarioStore) Get(id string) (Scenario, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.scenarios[id]
	if !ok {
		return Scenario{}, ErrScenarioNotFound
	}
	return *s, nil
}

// Create inserts or replaces a user scenario. Presets are never replaced.
func (st *ScenarioStore) Create(p config.Scenario) (Scenario, error) {
	if p.Meta.ID == "" {
		return Scenario{}, ErrMissingID
	}
	if p.Meta.CreatedAt.IsZero() {
		p.Meta.CreatedAt = time.Now().UTC()
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if old, ok := st.scenarios[p.Meta.ID]; ok && old.IsPreset {
		return Scenario{}, ErrPresetReadOnly
	}
	s := &Scenario{Params: p}
	st.scenarios[p.Meta.ID] = s
	return *s, nil
}

// UpdateParams replaces the parameters of id and drops its cached output.
// The stored id is kept even if p carries a different one.
func (st *ScenarioStore) UpdateParams(id string, p config.Scenario) (Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return Scenario{}, ErrScenarioNotFound
	}
	p.Meta.ID = id
	s.Params = p
	s.LastOutput = nil
	return *s, nil
}

func (st *ScenarioStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return ErrScenarioNotFound
	}
	if s.IsPreset {
		return ErrPresetReadOnly
	}
	delete(st.scenarios, id)
	return nil
}

// SetOutput caches out as the last run of id. Outputs computed from
// parameters that have since changed are discarded.
func (st *ScenarioStore) SetOutput(id string, out *sim.Output) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.scenarios[id]; ok && s.Params == out.Params {
		s.LastOutput = out
	}
}
