// Package dynamo provides the primitives shared by the world model, the
// integrators and the solver:
//
//   - [Vector]: the ten integrated stocks as a fixed-size array
//   - [DivergenceError]: reports a trajectory that left the plausible range
//   - sentinel errors for invalid configuration and initial conditions
//
// Callers match errors with errors.Is and errors.As:
//
//	var div *dynamo.DivergenceError
//	if errors.As(err, &div) {
//	    fmt.Println(div.Variable, div.Year)
//	}
package dynamo
