// Package stage turns a resolved RunPlan into the fixed, ordered list of SGA
// invocations: preprocess, index, correct.
//
// Argument construction is declarative. Each stage maps RunPlan fields to
// command-line tokens, and the files a stage consumes and produces are
// derived by the naming functions in this package rather than by the engine
// alone, so the driver can verify every hand-off on disk.
package stage
