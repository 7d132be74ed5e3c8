// Package console reads utterances from an interactive terminal and hands
// them to the skill.
//
// Every line is dispatched on its own goroutine so that the prompt stays
// available for the answer to a question the skill is waiting on.
package console
