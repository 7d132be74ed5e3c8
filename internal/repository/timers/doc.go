// Package timers implements persistence for the active timer collection.
//
// The FileRepository stores and loads the timers as a versioned CBOR envelope
// on disk and exposes a Repository interface that the skill depends on.
package timers
