// Package monitor watches the running timers.
//
// Monitor announces each timer once when it expires, repeats the alert sound
// while the timer keeps ringing, and refreshes the display, rotating through
// the timers when they do not all fit on the surface.
package monitor
