// Package domain holds the controller's shared types: registered lighting nodes,
// the discovery announcement payload, and the narrow interfaces that the
// registry, broadcaster and front ends depend on.
package domain
