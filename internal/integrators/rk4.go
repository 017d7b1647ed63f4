package integrators

import (
	"github.com/san-kum/world3/internal/world"
)

// RK4 is the classical fourth-order Runge-Kutta scheme. It keeps no state
// between steps and is safe for concurrent use.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step evaluates k1 at x as given, so its auxiliaries feed the first stage.
// Intermediate stages are rebuilt with world.FromVector, which clamps stocks
// and clears auxiliaries.
func (r *RK4) Step(sys System, x world.State, dt float64) world.State {
	t := x.Time
	y := x.ToVector()

	k1 := sys.Derive(x).ToVector()

	s2 := world.FromVector(t+dt*0.5, y.AddScaled(k1, dt*0.5))
	k2 := sys.Derive(s2).ToVector()

	s3 := world.FromVector(t+dt*0.5, y.AddScaled(k2, dt*0.5))
	k3 := sys.Derive(s3).ToVector()

	s4 := world.FromVector(t+dt, y.AddScaled(k3, dt))
	k4 := sys.Derive(s4).ToVector()

	dt6 := dt / 6.0
	var next = y
	for i := range next {
		next[i] += dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}

	return world.FromVector(t+dt, next)
}
