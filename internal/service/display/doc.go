// Package display renders running timers on the device's visual surface.
//
// A Strategy is chosen once at startup from the device capability: a
// single-line faceplate, a lipgloss panel in a terminal, or nothing.
package display
