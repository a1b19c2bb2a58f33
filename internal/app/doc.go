// Package app wires the application together: configuration, logging,
// metrics, the reconciliation service and the HTTP server with its
// middleware chain. It owns the server lifecycle from startup through
// graceful shutdown.
package app
