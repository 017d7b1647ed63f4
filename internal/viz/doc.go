// Package viz replays a finished World3 trajectory in the terminal.
//
// [Model] is a Bubble Tea program that steps through the samples of a
// [sim.Output], graphing one indicator with asciigraph and showing the
// rest as sparklines beside it.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first year
//	[ ]   - Step one sample back/forward
//	{ }   - Step ten samples
//	+ -   - Double/halve playback speed
//	Tab   - Cycle the graphed series
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
