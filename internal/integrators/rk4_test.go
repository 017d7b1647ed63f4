package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/world3/internal/world"
)

// decay drives every stock towards zero at rate k.
type decay struct{ k float64 }

func (d decay) Derive(x world.State) world.State {
	return x.Scale(-d.k)
}

// sawAuxiliary records whether Derive was called with auxiliaries present.
type sawAuxiliary struct {
	calls   int
	withAux []bool
}

func (s *sawAuxiliary) Derive(x world.State) world.State {
	s.calls++
	s.withAux = append(s.withAux, x.Capital.IndustrialOutput != 0)
	return x.Scale(0)
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := world.InitialConditions1900()
	start := x.ToVector()

	dt := 0.1
	steps := 100
	for i := 0; i < steps; i++ {
		x = integ.Step(decay{k: 0.5}, x, dt)
	}

	want := math.Exp(-0.5 * float64(steps) * dt)
	got := x.Capital.IndustrialCapital / start[world.IdxIndustrialCapital]
	if math.Abs(got-want) > 1e-7 {
		t.Errorf("decay error too large: got %.9f, expected %.9f", got, want)
	}
	if math.Abs(x.Time-1910) > 1e-9 {
		t.Errorf("expected time 1910, got %f", x.Time)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()
	x := world.InitialConditions1900()

	next := integ.Step(decay{k: 0.5}, x, 1)

	if next.Capital.IndustrialCapital != 0.1e12 {
		t.Errorf("expected 0.1e12, got %g", next.Capital.IndustrialCapital)
	}
	if next.Time != 1901 {
		t.Errorf("expected time 1901, got %f", next.Time)
	}
}

func TestRK4StagesStartFromStocks(t *testing.T) {
	x := world.InitialConditions1900()
	x.Capital.IndustrialOutput = 1

	sys := &sawAuxiliary{}
	NewRK4().Step(sys, x, 1)

	if sys.calls != 4 {
		t.Fatalf("expected 4 evaluations, got %d", sys.calls)
	}
	want := []bool{true, false, false, false}
	for i := range want {
		if sys.withAux[i] != want[i] {
			t.Errorf("stage %d saw auxiliaries = %v, want %v", i+1, sys.withAux[i], want[i])
		}
	}
}

func TestStepClampsNegativeStocks(t *testing.T) {
	x := world.InitialConditions1900()
	next := NewEuler().Step(decay{k: 5}, x, 1)

	for i, v := range next.ToVector() {
		if v < 0 {
			t.Errorf("stock %s negative: %g", world.StockNames[i], v)
		}
	}
}

func TestGet(t *testing.T) {
	for _, name := range List() {
		if _, err := Get(name); err != nil {
			t.Errorf("Get(%q) failed: %v", name, err)
		}
	}

	if _, err := Get("rk45"); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
