package reconcile_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"media-manager/core/asset"
	"media-manager/core/commit"
	"media-manager/core/compensate"
	"media-manager/core/database"
	"media-manager/core/reconcile"
	"media-manager/core/record"
	"media-manager/core/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type auditFixture struct {
	assets  *asset.MemoryStore
	records *record.GormStore
	auditor *reconcile.Auditor
}

func setupAudit(t *testing.T) *auditFixture {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, record.Migrate(db))

	assets := asset.NewMemoryStore("memory://assets")
	records := record.NewGormStore(db)
	remover := compensate.NewManager(assets, compensate.Config{}, zap.NewNop())

	return &auditFixture{
		assets:  assets,
		records: records,
		auditor: reconcile.NewAuditor(records, assets, remover),
	}
}

func (f *auditFixture) upload(t *testing.T, folder, id string) asset.Reference {
	up, err := f.assets.Upload(context.Background(), []byte(id), asset.Options{
		Folder:      folder,
		PublicID:    id,
		ContentType: "image/png",
	})
	require.NoError(t, err)
	return up.Ref
}

func TestAudit_FindsOrphansAndDangling(t *testing.T) {
	f := setupAudit(t)
	ctx := context.Background()

	kept := f.upload(t, "displays", "kept")
	orphan := f.upload(t, "displays", "orphan")
	f.upload(t, "portraits", "other-folder")
	missing := asset.Reference("memory://assets/displays/missing.png")

	id, err := f.records.Insert(ctx, &record.Record{
		Kind:      "galleries",
		Title:     "Spring",
		AssetRefs: []asset.Reference{kept, missing},
		OwnerID:   "admin",
	})
	require.NoError(t, err)

	report, err := f.auditor.Audit(ctx, reconcile.Target{Kind: "galleries", Folder: "displays"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stored)
	assert.Equal(t, 2, report.Referenced)
	assert.Equal(t, []asset.Reference{orphan}, report.Orphans)
	assert.Equal(t, []reconcile.Dangling{{RecordID: id, Ref: missing}}, report.Dangling)
	assert.False(t, report.Clean())
}

func TestAudit_Clean(t *testing.T) {
	f := setupAudit(t)

	report, err := f.auditor.Audit(context.Background(), reconcile.Target{Kind: "covers", Folder: "covers"})
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Empty(t, report.Orphans)
	assert.Empty(t, report.Dangling)
}

func TestPurge_Safety(t *testing.T) {
	f := setupAudit(t)
	ctx := context.Background()
	orphan := f.upload(t, "covers", "orphan")

	report, err := f.auditor.Audit(ctx, reconcile.Target{Kind: "covers", Folder: "covers"})
	require.NoError(t, err)
	require.Len(t, report.Orphans, 1)

	for _, opts := range []reconcile.Options{{}, {Confirmed: true, DryRun: true}} {
		n, err := f.auditor.Purge(ctx, report, opts)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
	assert.True(t, f.assets.Has(orphan))

	n, err := f.auditor.Purge(ctx, report, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, f.assets.Has(orphan))
}

type fixedCatalog []asset.Object

func (c fixedCatalog) List(ctx context.Context, folder string) ([]asset.Object, error) {
	return c, nil
}

func TestAudit_GraceSkipsRecentBlobs(t *testing.T) {
	old := asset.Object{Ref: "memory://assets/displays/old.png", LastModified: time.Now().Add(-2 * time.Hour)}
	fresh := asset.Object{Ref: "memory://assets/displays/fresh.png", LastModified: time.Now().Add(-time.Minute)}
	auditor := reconcile.NewAuditor(emptyRecords{}, fixedCatalog{old, fresh}, nil)

	report, err := auditor.Audit(context.Background(), reconcile.Target{Kind: "galleries", Folder: "displays", Grace: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Stored)
	assert.Equal(t, 1, report.Recent)
	assert.Equal(t, []asset.Reference{old.Ref}, report.Orphans)

	report, err = auditor.Audit(context.Background(), reconcile.Target{Kind: "galleries", Folder: "displays"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Recent)
	assert.Equal(t, []asset.Reference{fresh.Ref, old.Ref}, report.Orphans)
}

func TestPurge_KeepsBlobsReferencedSinceAudit(t *testing.T) {
	f := setupAudit(t)
	ctx := context.Background()
	adopted := f.upload(t, "covers", "adopted")
	stray := f.upload(t, "covers", "stray")

	report, err := f.auditor.Audit(ctx, reconcile.Target{Kind: "covers", Folder: "covers"})
	require.NoError(t, err)
	require.Equal(t, []asset.Reference{adopted, stray}, report.Orphans)

	_, err = f.records.Insert(ctx, &record.Record{Kind: "covers", Title: "Home", AssetRefs: []asset.Reference{adopted}, OwnerID: "admin"})
	require.NoError(t, err)

	n, err := f.auditor.Purge(ctx, report, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.assets.Has(adopted))
	assert.False(t, f.assets.Has(stray))
}

type failingRecords struct {
	record.Store
}

func (failingRecords) List(ctx context.Context, filter record.Filter) ([]record.Record, error) {
	return nil, record.ErrUnavailable
}

func TestPurge_RecheckFailureDeletesNothing(t *testing.T) {
	f := setupAudit(t)
	orphan := f.upload(t, "covers", "orphan")
	remover := compensate.NewManager(f.assets, compensate.Config{}, zap.NewNop())
	auditor := reconcile.NewAuditor(failingRecords{}, f.assets, remover)

	report := &reconcile.Report{Kind: "covers", Folder: "covers", Orphans: []asset.Reference{orphan}}
	n, err := auditor.Purge(context.Background(), report, reconcile.Options{Confirmed: true})
	assert.ErrorIs(t, err, record.ErrUnavailable)
	assert.Equal(t, 0, n)
	assert.True(t, f.assets.Has(orphan))
}

// pausedInsert holds every Insert until release is closed.
type pausedInsert struct {
	record.Store
	reached chan struct{}
	release chan struct{}
}

func (s *pausedInsert) Insert(ctx context.Context, rec *record.Record) (string, error) {
	close(s.reached)
	<-s.release
	return s.Store.Insert(ctx, rec)
}

func TestAudit_CommitInFlightKeepsItsBlobs(t *testing.T) {
	f := setupAudit(t)
	ctx := context.Background()

	paused := &pausedInsert{Store: f.records, reached: make(chan struct{}), release: make(chan struct{})}
	uploader := upload.NewCoordinator(f.assets, upload.Config{
		MaxFileBytes:   1024,
		MaxFiles:       10,
		AllowedTypes:   []string{"image/png"},
		TimeoutSeconds: 5,
	}, zap.NewNop())
	remover := compensate.NewManager(f.assets, compensate.Config{}, zap.NewNop())
	coord := commit.NewCoordinator(paused, uploader, remover, commit.DefaultKinds(), zap.NewNop())

	type outcome struct {
		res *commit.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := coord.Commit(ctx, commit.Request{
			Principal: commit.Principal{ID: "admin"},
			Kind:      "galleries",
			Title:     "Summer",
			Items: []commit.Item{commit.Pending(upload.PendingFile{
				Name: "one.png", ContentType: "image/png", Data: []byte("one"),
			})},
		})
		done <- outcome{res, err}
	}()
	<-paused.reached

	target := reconcile.Target{Kind: "galleries", Folder: "displays"}

	graced := target
	graced.Grace = time.Hour
	report, err := f.auditor.Audit(ctx, graced)
	require.NoError(t, err)
	assert.Empty(t, report.Orphans, "an upload awaiting its record is not an orphan")
	assert.Equal(t, 1, report.Recent)

	// Without a grace period the pending blob looks orphaned until the record lands.
	report, err = f.auditor.Audit(ctx, target)
	require.NoError(t, err)
	require.Len(t, report.Orphans, 1)

	close(paused.release)
	out := <-done
	require.NoError(t, out.err)
	require.Len(t, out.res.Refs, 1)

	n, err := f.auditor.Purge(ctx, report, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, f.assets.Has(out.res.Refs[0]), "the committed record must point at a live blob")
}

type countingCatalog struct {
	calls   atomic.Int32
	release chan struct{}
}

func (c *countingCatalog) List(ctx context.Context, folder string) ([]asset.Object, error) {
	c.calls.Add(1)
	<-c.release
	return nil, nil
}

type emptyRecords struct {
	record.Store
}

func (emptyRecords) List(ctx context.Context, filter record.Filter) ([]record.Record, error) {
	return nil, nil
}

func TestAudit_ConcurrentCallsShareOneBuild(t *testing.T) {
	catalog := &countingCatalog{release: make(chan struct{})}
	auditor := reconcile.NewAuditor(emptyRecords{}, catalog, nil)
	target := reconcile.Target{Kind: "galleries", Folder: "displays"}

	const callers = 5
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			started.Done()
			_, err := auditor.Audit(context.Background(), target)
			assert.NoError(t, err)
		}()
	}
	started.Wait()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), catalog.calls.Load(), "callers in flight must share one listing")
	close(catalog.release)
	wg.Wait()
}

type failingCatalog struct{}

func (failingCatalog) List(ctx context.Context, folder string) ([]asset.Object, error) {
	return nil, errors.New("bucket unreachable")
}

func TestAudit_ListError(t *testing.T) {
	auditor := reconcile.NewAuditor(emptyRecords{}, failingCatalog{}, nil)

	_, err := auditor.Audit(context.Background(), reconcile.Target{Kind: "covers", Folder: "covers"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unreachable")
}
