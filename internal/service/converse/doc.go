// Package converse implements the question and answer exchange with the user.
//
// Broker speaks a prompt, then waits for the next utterance to be submitted
// as the reply or for the ask timeout to elapse. Alerts are paused while a
// question is pending so the skill does not talk over the user.
package converse
