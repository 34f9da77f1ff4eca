package upload

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"sync"

	"media-manager/core/asset"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PendingFile is a binary payload that still has to be uploaded.
type PendingFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Outcome is the settled result of one item: exactly one of Ref and Err is set.
type Outcome struct {
	Index int
	Name  string
	Ref   asset.Reference
	Err   error
}

// Uploaded reports whether the item reached the store.
func (o Outcome) Uploaded() bool {
	return o.Err == nil
}

// BatchResult holds one outcome per submitted file, in submission order.
type BatchResult struct {
	Outcomes []Outcome
}

// References returns the uploaded references in submission order.
func (r *BatchResult) References() []asset.Reference {
	refs := make([]asset.Reference, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Uploaded() {
			refs = append(refs, o.Ref)
		}
	}
	return refs
}

// Err folds the outcomes into a *BatchError, or nil when every item was uploaded.
func (r *BatchResult) Err() error {
	var failures []Failure
	for _, o := range r.Outcomes {
		if !o.Uploaded() {
			failures = append(failures, Failure{Index: o.Index, Name: o.Name, Err: o.Err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Uploaded: r.References(), Failures: failures}
}

// Coordinator validates and uploads batches of files.
type Coordinator struct {
	store   asset.Store
	cfg     Config
	allowed map[string]struct{}
	logger  *zap.Logger
	newID   func() string
}

// NewCoordinator creates a coordinator uploading to store within the limits of cfg.
func NewCoordinator(store asset.Store, cfg Config, logger *zap.Logger) *Coordinator {
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normalizeType(t)] = struct{}{}
	}
	return &Coordinator{
		store:   store,
		cfg:     cfg,
		allowed: allowed,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// MaxFiles returns the batch size cap.
func (c *Coordinator) MaxFiles() int {
	return c.cfg.MaxFiles
}

// Validate checks the whole batch without any I/O. The first violation rejects it.
func (c *Coordinator) Validate(files []PendingFile) error {
	if c.cfg.MaxFiles > 0 && len(files) > c.cfg.MaxFiles {
		return &ValidationError{Reason: fmt.Sprintf("maximum %d files allowed, got %d", c.cfg.MaxFiles, len(files))}
	}

	for _, f := range files {
		if len(f.Data) == 0 {
			return &ValidationError{File: f.Name, Reason: "is empty"}
		}
		if c.cfg.MaxFileBytes > 0 && int64(len(f.Data)) > c.cfg.MaxFileBytes {
			return &ValidationError{File: f.Name, Reason: fmt.Sprintf("exceeds %d bytes limit", c.cfg.MaxFileBytes)}
		}
		if _, ok := c.allowed[normalizeType(f.ContentType)]; !ok {
			return &ValidationError{File: f.Name, Reason: fmt.Sprintf("has unsupported type: %s", f.ContentType)}
		}
	}
	return nil
}

// Submit validates files and uploads them concurrently into folder.
//
// A validation failure returns a *ValidationError and nothing is uploaded. Otherwise every
// upload runs to completion with its own timeout, regardless of sibling failures or of
// ctx being cancelled, and the returned error is the result's Err().
func (c *Coordinator) Submit(ctx context.Context, folder string, files []PendingFile) (*BatchResult, error) {
	if err := c.Validate(files); err != nil {
		return nil, err
	}

	result := &BatchResult{Outcomes: make([]Outcome, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	// In-flight uploads outlive a disconnecting caller.
	base := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(len(files))
	for i, f := range files {
		go func(i int, f PendingFile) {
			defer wg.Done()
			result.Outcomes[i] = c.uploadOne(base, folder, i, f)
		}(i, f)
	}
	wg.Wait()

	err := result.Err()
	if err != nil {
		c.logger.Warn("Upload batch failed",
			zap.String("folder", folder),
			zap.Int("items", len(files)),
			zap.Int("uploaded", len(result.References())),
			zap.Error(err))
	}
	return result, err
}

func (c *Coordinator) uploadOne(ctx context.Context, folder string, index int, f PendingFile) (out Outcome) {
	out = Outcome{Index: index, Name: f.Name}

	defer func() {
		if r := recover(); r != nil {
			out.Ref = ""
			out.Err = fmt.Errorf("upload of %s panicked: %v", f.Name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	up, err := c.store.Upload(ctx, f.Data, asset.Options{
		Folder:       folder,
		PublicID:     c.newID(),
		ResourceType: "image",
		ContentType:  normalizeType(f.ContentType),
		Timeout:      c.cfg.Timeout(),
	})
	if err != nil {
		out.Err = err
		return out
	}
	out.Ref = up.Ref
	return out
}

// normalizeType lower-cases a content type and drops its parameters.
func normalizeType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
