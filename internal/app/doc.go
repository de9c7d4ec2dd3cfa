// Package app wires the controller's units together and supervises them.
//
// The discovery listener, command broadcaster, HTTP front end and operator
// console share one registry and one command cell, and run under a single
// cancellation signal. The first unit to fail, an operator quit, or a process
// signal stops all of them.
package app
