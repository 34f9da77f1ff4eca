// Package compensate undoes partially completed work by deleting asset references.
//
// It serves three situations: the uploaded part of a failed batch, the uploads of an
// attempt whose record write failed, and the references a successful commit dropped.
// Deletions fan out through a bounded errgroup; each one is independent, idempotent
// (absent blobs count as deleted) and never fails the caller.
package compensate
