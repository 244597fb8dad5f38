// Package app wires configuration, services, middleware and HTTP routes
// into a runnable dashboard server with graceful shutdown.
package app
