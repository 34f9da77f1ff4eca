// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: validates the API key and binds the configured principal to the request.
//     Handlers read it with auth.Principal; the commit layer refuses mutations without one.
//   - rayid: tags every request with a ray id, exposed in the X-Ray-ID response header
//     and picked up by logger.WithRayID.
//
// rayid is registered first so every later log line carries the id.
package middleware
