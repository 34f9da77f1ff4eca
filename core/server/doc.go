// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key guarding every route, the
// principal (record owner id) that key authenticates as, and the inbound body limit
// sized for a full upload batch.
package server
