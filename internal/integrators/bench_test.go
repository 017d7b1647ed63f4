package integrators

import (
	"testing"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/world"
)

func benchmarkStep(b *testing.B, integ Integrator) {
	p := config.BusinessAsUsual()
	model := world.NewModel(p, lookup.MustLoad())
	x := model.Recompute(world.InitialConditions1900())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(model, x, 1)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkStep(b, NewEuler())
}

func BenchmarkRK4(b *testing.B) {
	benchmarkStep(b, NewRK4())
}
