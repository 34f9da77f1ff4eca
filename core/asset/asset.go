package asset

import (
	"context"
	"errors"
	"time"
)

// Reference is the public URL of one stored blob. Records hold references, never bytes,
// and two references are the same blob exactly when they are equal.
type Reference string

// Options describes where and how a blob is uploaded.
type Options struct {
	// Folder groups blobs of one entity kind (e.g. "displays").
	Folder string
	// PublicID is the object name inside Folder, without extension.
	PublicID string
	// ResourceType is recorded as object metadata ("image").
	ResourceType string
	// ContentType is the MIME type of the payload and selects the file extension.
	ContentType string
	// Timeout bounds the single upload. Zero means no extra bound.
	Timeout time.Duration
}

// Uploaded is the outcome of a successful upload.
type Uploaded struct {
	Ref Reference
	// ID is the object key inside the bucket.
	ID string
}

var (
	// ErrTimeout reports an upload or delete that did not finish in time.
	ErrTimeout = errors.New("asset store timeout")
	// ErrQuotaExceeded reports a store refusing the payload for capacity reasons.
	ErrQuotaExceeded = errors.New("asset store quota exceeded")
	// ErrInvalidPayload reports a payload or reference the store cannot accept.
	ErrInvalidPayload = errors.New("invalid asset payload")
	// ErrNotFound reports a reference without a blob behind it.
	ErrNotFound = errors.New("asset not found")
)

// Store is the object store holding asset blobs.
// Delete must treat an already absent blob as success.
type Store interface {
	Upload(ctx context.Context, data []byte, opts Options) (Uploaded, error)
	Delete(ctx context.Context, ref Reference) error
}

// Object is one stored blob as seen by a listing.
type Object struct {
	Ref          Reference
	LastModified time.Time
}

// Catalog enumerates the blobs stored under a folder.
type Catalog interface {
	List(ctx context.Context, folder string) ([]Object, error)
}

// Strings converts references to their string form.
func Strings(refs []Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}

// FromStrings converts strings to references, dropping empty entries.
func FromStrings(values []string) []Reference {
	out := make([]Reference, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, Reference(v))
	}
	return out
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectKey builds the bucket key for an upload: folder/publicID.ext
func ObjectKey(opts Options) string {
	key := opts.PublicID + extensions[opts.ContentType]
	if opts.Folder == "" {
		return key
	}
	return opts.Folder + "/" + key
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
