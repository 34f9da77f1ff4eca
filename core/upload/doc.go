// Package upload validates and executes batches of binary uploads.
//
// Submit first validates the whole batch (item count, per-file size ceiling, allowed
// content types) without touching the store: one bad file rejects the batch before any
// upload begins. Valid batches fan out one goroutine per file, each bounded by its own
// timeout and detached from caller cancellation, and the coordinator waits until every
// upload has settled. The per-item outcomes fold into a BatchResult; when any item
// failed, Submit returns a *BatchError that still lists the references that were
// uploaded so the caller can compensate them.
package upload
