// Package watch polls a running timer skill and prints its timers.
//
// It is the client-side companion of the daemon: every poll lists the active
// timers over gRPC and writes one line per timer. Optionally it returns as
// soon as a timer has expired, so scripts can wait on a timer.
package watch
