package cmd

import (
	"context"
	"fmt"
	"time"

	"media-manager/core/asset"
	"media-manager/core/commit"
	"media-manager/core/compensate"
	"media-manager/core/config"
	"media-manager/core/database"
	"media-manager/core/ordering"
	"media-manager/core/reconcile"
	"media-manager/core/record"
	"media-manager/core/storage"
	"media-manager/core/upload"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// assetBackend is an asset store that can also enumerate its folders.
type assetBackend interface {
	asset.Store
	asset.Catalog
}

// components holds the wired synchronization subsystem shared by every command.
type components struct {
	// client is nil unless the minio driver is selected.
	client      storage.Client
	assets      assetBackend
	db          *gorm.DB
	records     record.Store
	kinds       []commit.Kind
	compensator *compensate.Manager
	coordinator *commit.Coordinator
	orderer     *ordering.Persister
	auditor     *reconcile.Auditor
}

// wire builds the subsystem from configuration. The object storage client and the
// database handle are created once here and passed down explicitly.
func wire(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*components, error) {
	c := &components{kinds: commit.DefaultKinds()}

	switch cfg.Storage.Driver {
	case "memory":
		c.assets = asset.NewMemoryStore(cfg.Storage.BaseURL())
		logg.Warn("Using in-memory asset store; blobs are lost on exit")
	case "minio", "":
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		timeout := cfg.Storage.TimeoutSeconds
		if timeout <= 0 {
			timeout = 30
		}
		bucketCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
		if err := storage.EnsureBucket(bucketCtx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		c.client = client
		c.assets = asset.NewMinioStore(client, cfg.Storage.Bucket, cfg.Storage.BaseURL())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := record.Migrate(db); err != nil {
		return nil, err
	}
	c.db = db
	c.records = record.NewGormStore(db)

	c.compensator = compensate.NewManager(c.assets, cfg.Compensation, logg.Named("compensate"))
	uploader := upload.NewCoordinator(c.assets, cfg.Upload, logg.Named("upload"))
	c.coordinator = commit.NewCoordinator(c.records, uploader, c.compensator, c.kinds, logg.Named("commit"))
	c.orderer = ordering.NewPersister(c.records, logg.Named("ordering"))
	c.auditor = reconcile.NewAuditor(c.records, c.assets, c.compensator)

	logg.Info("Subsystem ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("database", cfg.Database.Driver),
		zap.String("bucket", cfg.Storage.Bucket))
	return c, nil
}
