// Package middleware groups the HTTP middleware mounted by the start command.
//
//   - rayid: tags each request with a ray id (X-Ray-ID) that logger.WithRayID reads.
//   - auth: rejects requests without the configured API key.
//
// Register rayid first so rejected requests are traced too.
package middleware
