// Package console reads line answers from the user and prints messages.
//
// On a terminal it uses liner for line editing; on pipes and in tests it
// falls back to a plain line scanner over any reader.
package console
