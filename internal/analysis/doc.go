// Package analysis summarizes completed runs and checks them against the
// historical record.
//
//   - [Summarize]: peaks, final values and averages of a trajectory
//   - [Validate]: the business-as-usual envelope (1900 and 1970 population,
//     overshoot peak, resource depletion, pollution rise)
//   - [Every]: thin a trajectory to fixed intervals for tables
package analysis
