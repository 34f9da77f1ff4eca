package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"media-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// MinioStore keeps blobs in an S3 compatible bucket.
type MinioStore struct {
	client  storage.Client
	bucket  string
	baseURL string
}

// NewMinioStore creates a store writing to bucket; references are baseURL + "/" + key.
func NewMinioStore(client storage.Client, bucket, baseURL string) *MinioStore {
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores data under ObjectKey(opts).
func (s *MinioStore) Upload(ctx context.Context, data []byte, opts Options) (Uploaded, error) {
	if len(data) == 0 {
		return Uploaded{}, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if opts.PublicID == "" {
		return Uploaded{}, fmt.Errorf("%w: missing public id", ErrInvalidPayload)
	}

	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	key := ObjectKey(opts)
	putOpts := minio.PutObjectOptions{ContentType: opts.ContentType}
	if opts.ResourceType != "" {
		putOpts.UserMetadata = map[string]string{"resource-type": opts.ResourceType}
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), putOpts); err != nil {
		return Uploaded{}, fmt.Errorf("failed to upload %s: %w", key, classify(err))
	}

	return Uploaded{Ref: s.Reference(key), ID: key}, nil
}

// Delete removes the blob behind ref. A missing blob is not an error.
func (s *MinioStore) Delete(ctx context.Context, ref Reference) error {
	key, err := s.KeyOf(ref)
	if err != nil {
		return err
	}

	err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err == nil {
		return nil
	}
	if err = classify(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return fmt.Errorf("failed to delete %s: %w", key, err)
}

// List returns a reference for every object under folder, skipping folder markers.
func (s *MinioStore) List(ctx context.Context, folder string) ([]Object, error) {
	opts := minio.ListObjectsOptions{Prefix: strings.TrimSuffix(folder, "/") + "/", Recursive: true}

	var objects []Object
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, classify(obj.Err))
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, Object{Ref: s.Reference(obj.Key), LastModified: obj.LastModified})
	}
	return objects, nil
}

// Reference returns the public reference of an object key.
func (s *MinioStore) Reference(key string) Reference {
	return Reference(s.baseURL + "/" + key)
}

// KeyOf resolves the object key behind ref. References outside this store's base URL
// are rejected so a client can never address another bucket.
func (s *MinioStore) KeyOf(ref Reference) (string, error) {
	prefix := s.baseURL + "/"
	key, ok := strings.CutPrefix(string(ref), prefix)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: reference %q is not served by this store", ErrInvalidPayload, ref)
	}
	return key, nil
}

// classify maps S3 error codes onto the asset error taxonomy, keeping the cause.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	switch minio.ToErrorResponse(err).Code {
	case "RequestTimeout":
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case "QuotaExceeded", "XMinioAdminBucketQuotaExceeded", "XMinioStorageFull", "EntityTooLarge":
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case "InvalidArgument", "InvalidDigest", "BadDigest", "EntityTooSmall", "IncompleteBody", "InvalidObjectName":
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	case "NoSuchKey":
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
