// Package lifecycle links instruments to each other and derives their
// final status.
//
// Infer runs over the whole registry in two passes: amendment linking, then
// repeal linking. Both passes only add information and check the current
// value before writing, so running Infer again over the same registry is a
// no-op. Derive runs after Infer and applies the status precedence
// repeal > amendment > enrichment > in_force.
package lifecycle
