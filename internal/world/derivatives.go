package world

import (
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/dynamo"
	"github.com/san-kum/world3/internal/lookup"
)

// evaluate runs the sectors on a copy of s. The order is fixed because each
// sector reads auxiliaries written by the ones before it.
func evaluate(s State, p *config.Scenario, t *lookup.Tables) (State, dynamo.Vector) {
	var d dynamo.Vector

	s, d[IdxNonrenewableResources] = Resources(s, p, t)

	s, capital := Capital(s, p, t)
	d[IdxIndustrialCapital] = capital.Industrial
	d[IdxServiceCapital] = capital.Service

	s, agriculture := Agriculture(s, p, t)
	d[IdxArableLand] = agriculture.Arable
	d[IdxPotentiallyArableLand] = agriculture.PotentiallyArable

	s, d[IdxPersistentPollution] = Pollution(s, p, t)

	s, population := Population(s, p, t)
	copy(d[IdxCohort0to14:IdxCohort65Plus+1], population[:])

	return s, d
}

// Derivatives returns the rate of change of every stock at s. Only the stock
// fields of the result carry data.
func Derivatives(s State, p *config.Scenario, t *lookup.Tables) State {
	_, d := evaluate(s, p, t)
	return stocksOnly(s.Time, d)
}

// Recompute fills every auxiliary field of s from its stocks. Stocks are
// returned unchanged.
func Recompute(s State, p *config.Scenario, t *lookup.Tables) State {
	out, _ := evaluate(s, p, t)
	return out
}

// Model binds a scenario and table set so integrators can evaluate the world
// without knowing about either.
type Model struct {
	params config.Scenario
	tables *lookup.Tables
}

// NewModel copies p; later changes to p do not affect the model.
func NewModel(p *config.Scenario, t *lookup.Tables) *Model {
	return &Model{params: *p, tables: t}
}

func (m *Model) Derive(s State) State {
	return Derivatives(s, &m.params, m.tables)
}

func (m *Model) Recompute(s State) State {
	return Recompute(s, &m.params, m.tables)
}

func (m *Model) Params() config.Scenario {
	return m.params
}
