package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/world3/internal/world"
)

// ErrUnknownIntegrator indicates a name with no registered integrator.
var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// System evaluates the rate of change of every stock at a state.
type System interface {
	Derive(x world.State) world.State
}

// Integrator advances a state by one fixed step. The result carries stocks
// only; callers recompute auxiliaries before reading them.
type Integrator interface {
	Step(sys System, x world.State, dt float64) world.State
}

var registry = map[string]func() Integrator{
	"rk4":   func() Integrator { return NewRK4() },
	"euler": func() Integrator { return NewEuler() },
}

func Get(name string) (Integrator, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownIntegrator, name, List())
	}
	return build(), nil
}

func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
