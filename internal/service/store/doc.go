// Package store keeps the collection of active countdown timers.
//
// Store assigns names, creation indexes and duration ordinals, keeps the
// collection ordered by expiration and hands out snapshots so callers never
// observe or mutate internal records.
package store
