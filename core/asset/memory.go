package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryBlob struct {
	data     []byte
	modified time.Time
}

// MemoryStore keeps blobs in process memory. It backs the "memory" storage driver.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string]memoryBlob
}

// NewMemoryStore creates an empty store whose references start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		blobs:   make(map[string]memoryBlob),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, data []byte, opts Options) (Uploaded, error) {
	if err := ctx.Err(); err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if len(data) == 0 {
		return Uploaded{}, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if opts.PublicID == "" {
		return Uploaded{}, fmt.Errorf("%w: missing public id", ErrInvalidPayload)
	}

	key := ObjectKey(opts)
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.blobs[key] = memoryBlob{data: buf, modified: time.Now()}
	s.mu.Unlock()

	return Uploaded{Ref: Reference(s.baseURL + "/" + key), ID: key}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ref Reference) error {
	key, ok := strings.CutPrefix(string(ref), s.baseURL+"/")
	if !ok {
		return fmt.Errorf("%w: reference %q is not served by this store", ErrInvalidPayload, ref)
	}

	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context, folder string) ([]Object, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []Object
	for key, blob := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, Object{Ref: Reference(s.baseURL + "/" + key), LastModified: blob.modified})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Ref < objects[j].Ref })
	return objects, nil
}

// Has reports whether a live blob backs ref.
func (s *MemoryStore) Has(ref Reference) bool {
	key, ok := strings.CutPrefix(string(ref), s.baseURL+"/")
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.blobs[key]
	return exists
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
