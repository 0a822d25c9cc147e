// Package runplan resolves raw, partially specified user configuration into
// an immutable RunPlan: every default applied, every value range-checked and
// every path made absolute. Resolve is the single boundary where defaults
// are decided; nothing downstream falls back to its own.
package runplan
