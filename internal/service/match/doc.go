// Package match resolves free-text references to active timers.
//
// Matcher applies a fixed cascade (all marker, duration, name, ordinal) to a
// snapshot of the store. Resolver wraps it in a bounded clarification loop
// that asks the user which timer they meant until a single timer remains.
package match
