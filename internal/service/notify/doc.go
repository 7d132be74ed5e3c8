// Package notify delivers the skill's output to the user and the host.
//
// Hub fans a request out to its channels: rendered speech written to the
// console and published as a "speak" bus message, alert sounds played with
// beep, display frames, and Mycroft-style message bus events sent over a
// websocket.
package notify
