// Package world holds the world state and the five sector functions that
// compute its rates of change.
//
// A [State] carries ten integrated stocks plus auxiliary fields derived from
// them. The sector functions are pure: each takes a state by value and
// returns the state with its own auxiliaries filled in, together with the
// rates for its stocks. [Derivatives] chains them in order:
//
//	resources -> capital -> agriculture -> pollution -> population
//
// Arithmetic on states ([State.Add], [State.Scale]) touches stocks only.
// Auxiliaries of an arithmetic result are meaningless until [Recompute]
// runs.
package world
