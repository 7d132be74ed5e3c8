// Package config defines the timer skill settings and helpers to load,
// validate and save them in YAML format.
//
// Values are resolved in three layers: built-in defaults, the YAML file, and
// finally a .env file plus TIMER_* environment variables.
package config
