// Package stream serves a running scene over websockets.
//
// A [Server] owns one scene. Its Run loop is the only goroutine that steps
// the scene; every frame goes out as a JSON [Message] to all clients.
// Clients may send "pause", "resume" and "kick" (with a value) messages.
package stream
