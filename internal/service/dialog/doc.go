// Package dialog selects and renders the skill's spoken responses.
//
// The selector functions are pure: given timer state they pick a template
// identifier and its parameters. Renderer turns a Response into text using
// the embedded go-i18n message catalogue.
package dialog
