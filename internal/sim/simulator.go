package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/dynamo"
	"github.com/san-kum/world3/internal/integrators"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/world"
)

// Divergence ceilings. Population is the primary check; the capital bound
// catches runaway accumulation that population alone would not see.
const (
	PopulationCeiling = 1e13
	CapitalCeiling    = 1e18
)

// Solver integrates the world model over a scenario's horizon. It holds no
// per-run state, so one Solver may serve concurrent runs.
type Solver struct {
	tables     *lookup.Tables
	integrator integrators.Integrator
}

// New returns a solver using integ, or RK4 when integ is nil.
func New(tables *lookup.Tables, integ integrators.Integrator) *Solver {
	if integ == nil {
		integ = integrators.NewRK4()
	}
	return &Solver{tables: tables, integrator: integ}
}

// Solve integrates from initial to p.EndYear and returns every sample,
// initial condition included. The final step is shortened so the last
// sample lands on p.EndYear. On divergence no trajectory is returned.
func (s *Solver) Solve(initial world.State, p config.Scenario) ([]world.State, error) {
	if err := s.validateConfig(initial, p); err != nil {
		return nil, err
	}

	model := world.NewModel(&p, s.tables)
	start := initial.Time
	dt := p.TimeStep
	n := config.SampleCount(start, p.EndYear, dt)

	states := make([]world.State, 0, n)
	cur := model.Recompute(initial)
	states = append(states, cur)

	for i := 1; i < n; i++ {
		next := start + float64(i)*dt
		if i == n-1 {
			next = p.EndYear
		}

		x := s.integrator.Step(model, cur, next-cur.Time)
		x.Time = next
		x = model.Recompute(x)

		if err := checkDivergence(x); err != nil {
			return nil, err
		}

		states = append(states, x)
		cur = x
	}

	return states, nil
}

func (s *Solver) validateConfig(initial world.State, p config.Scenario) error {
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		return fmt.Errorf("%w: time step must be positive, got %g", dynamo.ErrInvalidConfig, p.TimeStep)
	}
	if math.IsNaN(initial.Time) || math.IsInf(initial.Time, 0) {
		return fmt.Errorf("%w: start year must be finite", dynamo.ErrInvalidConfig)
	}
	if !(p.EndYear > initial.Time) || math.IsInf(p.EndYear, 0) {
		return fmt.Errorf("%w: end year %g must follow start year %g", dynamo.ErrInvalidConfig, p.EndYear, initial.Time)
	}
	return nil
}

func checkDivergence(s world.State) error {
	pop := s.Population.Population
	if !finite(pop) || pop < 0 || pop > PopulationCeiling {
		return &dynamo.DivergenceError{Year: s.Time, Variable: "population.population", Value: pop}
	}

	v := s.ToVector()
	for i, x := range v {
		if !finite(x) {
			return &dynamo.DivergenceError{Year: s.Time, Variable: world.StockNames[i], Value: x}
		}
	}
	for _, i := range []int{world.IdxIndustrialCapital, world.IdxServiceCapital} {
		if v[i] > CapitalCeiling {
			return &dynamo.DivergenceError{Year: s.Time, Variable: world.StockNames[i], Value: v[i]}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Run solves p from its own initial conditions with the integrator it
// names.
func Run(tables *lookup.Tables, p *config.Scenario) (*Output, error) {
	name := p.Integrator
	if name == "" {
		name = config.DefaultIntegrator
	}
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, err
	}

	states, err := New(tables, integ).Solve(world.InitialConditions(p), *p)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", p.Meta.ID, err)
	}
	return NewOutput(*p, states), nil
}
