// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the timer service with call
// timeouts, detection of the current system actor (hostname/username) and a
// guard that keeps a second daemon from starting on the same machine.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
