// Package timer contains the core domain types of the countdown timer skill.
//
// It defines Record (one running countdown), Query (the parsed facets of a
// disambiguation request) and the sentinel errors shared by the store, the
// matcher and the skill handlers.
package timer
