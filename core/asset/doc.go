// Package asset is the boundary to the object store holding image blobs.
//
// A Reference is the public URL of one blob; records store references only. The Store
// interface exposes the two operations the synchronization subsystem needs, Upload and
// Delete, and classifies failures as ErrTimeout, ErrQuotaExceeded, ErrInvalidPayload or
// ErrNotFound. Delete is idempotent: removing an absent blob succeeds.
//
// # Implementations
//
//   - MinioStore: S3/MinIO bucket through core/storage.Client.
//   - MemoryStore: process memory, selected with storage.driver=memory.
//
// Both also implement Catalog, used by the orphan audit to enumerate a folder.
package asset
