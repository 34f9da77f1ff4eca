package integrity

import (
	"context"
	"fmt"
	"time"

	"media-manager/core/commit"
	"media-manager/core/reconcile"
	"media-manager/core/storage"
	"media-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	kinds   []commit.Kind
	auditor *reconcile.Auditor
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service. client may be nil when the bucket is not
// served by MinIO, in which case structure checks are unavailable.
func NewService(client storage.Client, bucket string, kinds []commit.Kind, auditor *reconcile.Auditor, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		kinds:   kinds,
		auditor: auditor,
		db:      db,
		logger:  logger,
	}
}

func (s *Service) folders() []string {
	out := make([]string, 0, len(s.kinds))
	for _, k := range s.kinds {
		if k.HasAssets() {
			out = append(out, k.Folder)
		}
	}
	return out
}

// CheckStructure returns the kind folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("structure check requires the minio storage driver")
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders())
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return fmt.Errorf("structure fix requires the minio storage driver")
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckServer compares the records table with the record model.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}

// CheckAssets audits one kind, or every kind when name is empty. Text-only kinds have
// nothing to audit. Blobs younger than
// grace are counted as recent instead of orphaned.
func (s *Service) CheckAssets(ctx context.Context, name string, grace time.Duration) ([]*reconcile.Report, error) {
	reports := []*reconcile.Report{}
	found := false
	for _, k := range s.kinds {
		if name != "" && k.Name != name {
			continue
		}
		found = true
		if !k.HasAssets() {
			continue
		}
		report, err := s.auditor.Audit(ctx, reconcile.Target{Kind: k.Name, Folder: k.Folder, Grace: grace})
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if name != "" && !found {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return reports, nil
}
