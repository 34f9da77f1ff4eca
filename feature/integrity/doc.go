// Package integrity provides system health checks.
//
// # Checks Provided
//
//   - Structure: every collection folder exists in the storage bucket.
//   - Server: the records table matches the record model (columns, declared types).
//   - Assets: per collection, blobs no record references (orphans) and references with
//     no blob (dangling). Read only; purging is done with the audit command.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/server : Runs server schema check.
//   - GET /integrity/assets : Runs the asset audit (supports ?kind=).
package integrity
