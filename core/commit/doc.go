// Package commit drives the create, edit and delete of asset-backed records.
//
// A commit spans two stores with no shared transaction: the asset store holding blobs and
// the record store holding rows. Coordinator keeps both consistent through ordering and
// compensation:
//
//	validating -> uploading -> reconciling -> persisting -> done
//	uploading  -> compensating_uploads -> failed
//	persisting -> compensating_new     -> failed
//
// # Guarantees
//
// A committed record only references blobs that exist. Blobs uploaded by an attempt are
// referenced only once the record write succeeded. A blob a record stops referencing is
// deleted only after the write that dropped it.
//
// # Limitations
//
// Two concurrent edits of one record race and the last write wins. Nothing is locked
// in-process.
package commit
