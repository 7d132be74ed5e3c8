// Package extract pulls timer facets out of transcribed English requests.
//
// It recognizes durations ("an hour and a half", "5 min"), timer names
// ("named pasta", "the egg timer"), ordinals ("the second one", "number 3"),
// "all" markers and yes/no answers, and scores name similarity.
package extract
