// Package reconcile decides which asset references a record keeps and which blobs
// become garbage.
//
// # Edit reconciliation
//
// Reconcile is a pure function over three lists: the references the record held before
// the edit (fetched from the record store, never taken from the client), the references
// the client says it retained, and the references uploaded by this attempt.
//
//	plan := reconcile.Reconcile(
//	    []asset.Reference{"a", "b", "c"}, // previous
//	    []asset.Reference{"a", "c"},      // retained by the client
//	    []asset.Reference{"d"},           // uploaded now
//	)
//	// plan.Final    == [a c d]
//	// plan.ToRemove == [b]
//
// A retained reference the record never held is rejected, so a client cannot attach a
// blob that belongs to another record.
//
// # Orphan audit
//
// Auditor compares a kind's storage folder with the references held by that kind's
// records. Both indices are loaded concurrently and concurrent audits of one target share
// a single build through singleflight. The report lists orphans (stored, unreferenced) and
// dangling references (referenced, missing).
//
// A commit uploads its blobs before it writes the record, so a blob newer than
// Target.Grace is counted as Recent and never reported as an orphan. Purge removes
// orphans through the compensation manager and only when confirmed and not a dry run. It
// lists the records again right before deleting and keeps any orphan referenced since.
package reconcile
