// Package skill composes the timer store, matcher, dialogs and notifier into
// the voice skill.
//
// Skill routes each transcribed utterance either to the pending question or
// to an intent handler (start, status, cancel, stop, mute), persists the
// timers after every change and drives shutdown. Run wires the daemon: the
// expiration monitor, the gRPC control surface and the interactive console.
package skill
