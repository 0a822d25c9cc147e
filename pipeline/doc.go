// Package pipeline drives the SGA stages of one run to a single terminal
// Result.
//
// The driver is a straight-line state machine:
//
//	NotStarted → Running(preprocess) → Running(index) → Running(correct) → Completed
//	                     ↘                  ↘                  ↘
//	                   Failed             Failed             Failed
//
// Before a stage launches, each of its declared inputs must exist; after a
// zero exit, its declared output must exist. The first failure of any kind
// ends the run. On success the corrected reads are moved to the requested
// output path, and intermediates are removed when the plan asks for it.
//
// Each stage is traced as a child span of the run span and recorded in the
// stage metrics.
package pipeline
