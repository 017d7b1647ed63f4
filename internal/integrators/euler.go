package integrators

import "github.com/san-kum/world3/internal/world"

// Euler is the explicit first-order method. It is mainly useful for checking
// how sensitive a scenario is to the integration scheme.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x world.State, dt float64) world.State {
	dx := sys.Derive(x).ToVector()
	return world.FromVector(x.Time+dt, x.ToVector().AddScaled(dx, dt))
}
