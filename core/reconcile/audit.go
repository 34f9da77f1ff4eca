package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"media-manager/core/asset"
	"media-manager/core/compensate"
	"media-manager/core/record"

	"golang.org/x/sync/singleflight"
)

// DefaultGrace is how long a fresh blob is left out of an audit. A commit uploads its
// blobs before the record that references them is written.
const DefaultGrace = time.Hour

// Target names the records and the storage folder one audit compares.
type Target struct {
	Kind   string
	Folder string
	// Grace skips blobs modified within this window. Zero audits every blob.
	Grace time.Duration
}

// Dangling is a reference held by a record with no blob behind it.
type Dangling struct {
	RecordID string          `json:"record_id"`
	Ref      asset.Reference `json:"ref"`
}

// Report is the result of comparing stored blobs with record references.
type Report struct {
	Kind       string `json:"kind"`
	Folder     string `json:"folder"`
	Stored     int    `json:"stored"`
	Referenced int    `json:"referenced"`
	// Recent counts stored blobs skipped because they are younger than the grace period.
	Recent int `json:"recent"`
	// Orphans are stored blobs no record of the kind references.
	Orphans []asset.Reference `json:"orphans"`
	// Dangling are record references whose blob is missing.
	Dangling []Dangling `json:"dangling"`
}

// Clean reports whether the audit found nothing to act on.
func (r *Report) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Dangling) == 0
}

// Options controls whether Purge actually deletes anything.
type Options struct {
	// Confirmed must be true for Purge to delete.
	Confirmed bool
	// DryRun suppresses deletion even when confirmed.
	DryRun bool
}

// Remover deletes references on a best-effort basis.
type Remover interface {
	Delete(ctx context.Context, reason compensate.Reason, refs []asset.Reference) compensate.Summary
}

// Auditor finds orphaned blobs and dangling references.
type Auditor struct {
	records record.Store
	catalog asset.Catalog
	remover Remover
	sf      singleflight.Group
}

// NewAuditor creates an auditor over the given stores.
func NewAuditor(records record.Store, catalog asset.Catalog, remover Remover) *Auditor {
	return &Auditor{records: records, catalog: catalog, remover: remover}
}

// Audit compares the blobs under target.Folder with the references held by records of
// target.Kind. Concurrent audits of the same target share one build.
func (a *Auditor) Audit(ctx context.Context, target Target) (*Report, error) {
	key := fmt.Sprintf("%s|%s|%s", target.Kind, target.Folder, target.Grace)
	result, err, _ := a.sf.Do(key, func() (interface{}, error) {
		return a.build(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Report), nil
}

func (a *Auditor) build(ctx context.Context, target Target) (*Report, error) {
	var (
		records    []record.Record
		stored     []asset.Object
		recordsErr error
		storedErr  error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		records, recordsErr = a.records.List(ctx, record.Filter{Kind: target.Kind})
	}()
	go func() {
		defer wg.Done()
		stored, storedErr = a.catalog.List(ctx, target.Folder)
	}()
	wg.Wait()

	if recordsErr != nil {
		return nil, fmt.Errorf("failed to list records: %w", recordsErr)
	}
	if storedErr != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", target.Folder, storedErr)
	}

	storedSet := make(map[asset.Reference]struct{}, len(stored))
	for _, obj := range stored {
		storedSet[obj.Ref] = struct{}{}
	}

	report := &Report{
		Kind:     target.Kind,
		Folder:   target.Folder,
		Stored:   len(stored),
		Orphans:  []asset.Reference{},
		Dangling: []Dangling{},
	}

	referenced := referencedBy(records)
	for _, rec := range records {
		for _, ref := range rec.AssetRefs {
			if _, ok := storedSet[ref]; !ok {
				report.Dangling = append(report.Dangling, Dangling{RecordID: rec.ID, Ref: ref})
			}
		}
	}
	report.Referenced = len(referenced)

	cutoff := time.Now().Add(-target.Grace)
	for _, obj := range stored {
		if _, ok := referenced[obj.Ref]; ok {
			continue
		}
		if target.Grace > 0 && obj.LastModified.After(cutoff) {
			report.Recent++
			continue
		}
		report.Orphans = append(report.Orphans, obj.Ref)
	}

	sort.Slice(report.Orphans, func(i, j int) bool { return report.Orphans[i] < report.Orphans[j] })
	sort.Slice(report.Dangling, func(i, j int) bool {
		if report.Dangling[i].RecordID != report.Dangling[j].RecordID {
			return report.Dangling[i].RecordID < report.Dangling[j].RecordID
		}
		return report.Dangling[i].Ref < report.Dangling[j].Ref
	})

	return report, nil
}

func referencedBy(records []record.Record) map[asset.Reference]struct{} {
	referenced := make(map[asset.Reference]struct{})
	for _, rec := range records {
		for _, ref := range rec.AssetRefs {
			referenced[ref] = struct{}{}
		}
	}
	return referenced
}

// Purge deletes the orphans of report and returns how many were removed.
// Nothing is deleted unless opts.Confirmed is set and opts.DryRun is not.
// The records are listed again first and any orphan referenced since the audit is kept.
// Dangling references are never touched.
func (a *Auditor) Purge(ctx context.Context, report *Report, opts Options) (int, error) {
	if !opts.Confirmed || opts.DryRun || report == nil || len(report.Orphans) == 0 {
		return 0, nil
	}

	records, err := a.records.List(ctx, record.Filter{Kind: report.Kind})
	if err != nil {
		return 0, fmt.Errorf("failed to recheck records: %w", err)
	}
	referenced := referencedBy(records)

	orphans := make([]asset.Reference, 0, len(report.Orphans))
	for _, ref := range report.Orphans {
		if _, ok := referenced[ref]; !ok {
			orphans = append(orphans, ref)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	return a.remover.Delete(ctx, compensate.ReasonOrphan, orphans).Deleted, nil
}
