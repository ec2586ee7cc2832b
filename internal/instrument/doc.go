// Package instrument defines the legal instrument data model and the
// identity rules used to merge discovered and configured records.
//
// # Identity
//
// An instrument's ID is either supplied by a configured seed or derived
// from its title with Slug. Two titles that slug identically are the same
// instrument; this collision is accepted, not reported.
//
// # Registry
//
// Registry is the arena every pipeline stage reads and writes. It keeps
// instruments keyed by ID in first-insertion order, so a run that sees the
// same inputs produces the same snapshot order.
package instrument
