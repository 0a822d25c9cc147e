// Package errors provides the error taxonomy for sgacorrect.
// Every failure surfaced by the resolver or the pipeline driver is an
// *AppError carrying a machine-readable code, the stage it happened in
// (if any) and the process exit code the CLI should terminate with.
package errors
