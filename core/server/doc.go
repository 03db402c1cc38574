// Package server holds the HTTP server configuration.
//
// Config defines the listen port, the API key, the graceful shutdown timeout and
// the optional cron schedule on which the start command refreshes the sheet.
package server
