// Package lookup evaluates the piecewise-linear response curves that drive
// the world model and holds the calibrated table set.
//
// Tables are constructed once with [Load] and passed by pointer to every
// run. A *Tables value is never mutated after Load returns, so one instance
// may be shared across goroutines.
package lookup
