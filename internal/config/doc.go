// Package config loads controller settings from the environment (and an optional .env file).
//
// Ports, the accepted firmware id, staleness and broadcast timing, console mode and logging
// are all set here. Load validates ranges so the rest of the process can trust the values.
package config
