package compensate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"media-manager/core/asset"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds the cleanup fan-out settings.
type Config struct {
	// Workers bounds how many deletions run at once.
	Workers int `mapstructure:"workers" default:"8"`
	// TimeoutSeconds bounds each individual deletion.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}

// Reason tags why references are being removed; it only feeds the logs.
type Reason string

const (
	// ReasonFailedBatch removes the uploaded part of a failed upload batch.
	ReasonFailedBatch Reason = "failed_batch"
	// ReasonFailedPersist removes this attempt's uploads after the record write failed.
	ReasonFailedPersist Reason = "failed_persist"
	// ReasonDropped removes references a committed edit no longer holds.
	ReasonDropped Reason = "dropped"
	// ReasonRecordDeleted removes the references of a deleted record.
	ReasonRecordDeleted Reason = "record_deleted"
	// ReasonOrphan removes blobs no record references.
	ReasonOrphan Reason = "orphan"
)

// Summary counts what a Delete call did.
type Summary struct {
	Attempted int
	Deleted   int
	Failed    int
}

// Manager deletes asset references on a best-effort basis.
type Manager struct {
	store  asset.Store
	cfg    Config
	logger *zap.Logger
}

// NewManager creates a manager deleting from store.
func NewManager(store asset.Store, cfg Config, logger *zap.Logger) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	return &Manager{store: store, cfg: cfg, logger: logger}
}

// Delete removes every distinct reference in refs. Each deletion is attempted
// independently; failures are logged and counted, never returned. Missing blobs count
// as deleted. The call waits for every deletion and ignores cancellation of ctx.
func (m *Manager) Delete(ctx context.Context, reason Reason, refs []asset.Reference) Summary {
	unique := dedupe(refs)
	if len(unique) == 0 {
		return Summary{}
	}

	base := context.WithoutCancel(ctx)
	var deleted, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for _, ref := range unique {
		g.Go(func() error {
			if err := m.deleteOne(base, ref); err != nil {
				failed.Add(1)
				m.logger.Warn("Compensation delete failed",
					zap.String("reason", string(reason)),
					zap.String("ref", string(ref)),
					zap.Error(err))
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{
		Attempted: len(unique),
		Deleted:   int(deleted.Load()),
		Failed:    int(failed.Load()),
	}
	m.logger.Debug("Compensation finished",
		zap.String("reason", string(reason)),
		zap.Int("attempted", summary.Attempted),
		zap.Int("failed", summary.Failed))
	return summary
}

func (m *Manager) deleteOne(ctx context.Context, ref asset.Reference) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delete panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	if err := m.store.Delete(ctx, ref); err != nil && !errors.Is(err, asset.ErrNotFound) {
		return err
	}
	return nil
}

func dedupe(refs []asset.Reference) []asset.Reference {
	seen := make(map[asset.Reference]struct{}, len(refs))
	out := make([]asset.Reference, 0, len(refs))
	for _, r := range refs {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
