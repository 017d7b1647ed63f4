package lookup

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidTable indicates control points that do not describe a curve.
var ErrInvalidTable = errors.New("lookup: invalid table")

// Table is a piecewise-linear curve with clamped extrapolation.
type Table struct {
	Name string
	X    []float64
	Y    []float64
}

// New validates the control points and returns the curve. X must be strictly
// increasing and hold at least two points.
func New(name string, x, y []float64) (*Table, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %s has %d x values and %d y values", ErrInvalidTable, name, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least 2 points, got %d", ErrInvalidTable, name, len(x))
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return nil, fmt.Errorf("%w: %s has a non-finite point at index %d", ErrInvalidTable, name, i)
		}
		if i > 0 && x[i] <= x[i-1] {
			return nil, fmt.Errorf("%w: %s x not strictly increasing at index %d", ErrInvalidTable, name, i)
		}
	}

	t := &Table{Name: name, X: make([]float64, len(x)), Y: make([]float64, len(y))}
	copy(t.X, x)
	copy(t.Y, y)
	return t, nil
}

// MustNew is New for calibration data compiled into the binary.
func MustNew(name string, x, y []float64) *Table {
	t, err := New(name, x, y)
	if err != nil {
		panic(err)
	}
	return t
}

// Eval returns the curve value at x. Queries outside the domain return the
// nearest endpoint value exactly. NaN evaluates to the first point.
func (t *Table) Eval(x float64) float64 {
	n := len(t.X)
	if math.IsNaN(x) {
		return t.Y[0]
	}
	x = math.Min(math.Max(x, t.X[0]), t.X[n-1])

	pos := sort.Search(n, func(i int) bool { return t.X[i] > x })
	if pos == 0 {
		return t.Y[0]
	}
	if pos >= n {
		return t.Y[n-1]
	}

	x0, x1 := t.X[pos-1], t.X[pos]
	y0, y1 := t.Y[pos-1], t.Y[pos]
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}

// Domain returns the first and last control point abscissae.
func (t *Table) Domain() (float64, float64) {
	return t.X[0], t.X[len(t.X)-1]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
