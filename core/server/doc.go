// Package server holds the HTTP server configuration and the shared Fiber
// app setup.
//
// # Configuration
//
// The Config struct defines the bind host, the HTTP port and the API key.
//
// # App
//
// New returns a Fiber app with ray id tagging, request logging, an
// unauthenticated /health check and API key protection for everything
// registered afterwards. Features mount their routes on it through
// core/loader.
package server
