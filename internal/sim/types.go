package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/world"
)

// ErrUnknownField indicates a series path that no state field matches.
var ErrUnknownField = errors.New("sim: unknown field")

// Output is a completed run together with the scenario that produced it.
type Output struct {
	ScenarioID   string          `json:"scenario_id"`
	ScenarioName string          `json:"scenario_name"`
	Timeline     []float64       `json:"timeline"`
	States       []world.State   `json:"states"`
	Params       config.Scenario `json:"params"`
	ComputedAt   time.Time       `json:"computed_at"`
}

func NewOutput(p config.Scenario, states []world.State) *Output {
	timeline := make([]float64, len(states))
	for i, s := range states {
		timeline[i] = s.Time
	}
	return &Output{
		ScenarioID:   p.Meta.ID,
		ScenarioName: p.Meta.Name,
		Timeline:     timeline,
		States:       states,
		Params:       p,
		ComputedAt:   time.Now().UTC(),
	}
}

// StateAtYear returns the sample closest to year.
func (o *Output) StateAtYear(year float64) (world.State, bool) {
	if len(o.States) == 0 {
		return world.State{}, false
	}
	best := 0
	for i, t := range o.Timeline {
		if math.Abs(t-year) < math.Abs(o.Timeline[best]-year) {
			best = i
		}
	}
	return o.States[best], true
}

// Series extracts one field across the trajectory.
func (o *Output) Series(path string) ([]float64, error) {
	if _, ok := (world.State{}).Field(path); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	out := make([]float64, len(o.States))
	for i, s := range o.States {
		out[i], _ = s.Field(path)
	}
	return out, nil
}

func (o *Output) Final() world.State {
	if len(o.States) == 0 {
		return world.State{}
	}
	return o.States[len(o.States)-1]
}
