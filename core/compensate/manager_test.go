package compensate_test

import (
	"context"
	"errors"
	"testing"

	"media-manager/core/asset"
	"media-manager/core/asset/mocks"
	"media-manager/core/compensate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDelete_SettlesAll(t *testing.T) {
	store := new(mocks.Store)
	store.On("Delete", mock.Anything, asset.Reference("a")).Return(nil).Once()
	store.On("Delete", mock.Anything, asset.Reference("b")).Return(errors.New("storage down")).Once()
	store.On("Delete", mock.Anything, asset.Reference("c")).Return(nil).Once()

	core, logs := observer.New(zapcore.WarnLevel)
	m := compensate.NewManager(store, compensate.Config{Workers: 2}, zap.New(core))

	summary := m.Delete(context.Background(), compensate.ReasonFailedBatch, []asset.Reference{"a", "b", "c"})

	assert.Equal(t, compensate.Summary{Attempted: 3, Deleted: 2, Failed: 1}, summary)
	store.AssertExpectations(t)

	entries := logs.FilterMessage("Compensation delete failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "b", entries[0].ContextMap()["ref"])
		assert.Equal(t, "failed_batch", entries[0].ContextMap()["reason"])
	}
}

func TestDelete_NotFoundIsSuccess(t *testing.T) {
	store := new(mocks.Store)
	store.On("Delete", mock.Anything, asset.Reference("gone")).Return(asset.ErrNotFound)

	m := compensate.NewManager(store, compensate.Config{}, zap.NewNop())
	summary := m.Delete(context.Background(), compensate.ReasonDropped, []asset.Reference{"gone"})

	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 0, summary.Failed)
}

func TestDelete_DeduplicatesAndSkipsEmpty(t *testing.T) {
	store := new(mocks.Store)
	store.On("Delete", mock.Anything, asset.Reference("a")).Return(nil)

	m := compensate.NewManager(store, compensate.Config{}, zap.NewNop())
	summary := m.Delete(context.Background(), compensate.ReasonDropped, []asset.Reference{"a", "", "a"})

	assert.Equal(t, 1, summary.Attempted)
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestDelete_Empty(t *testing.T) {
	store := new(mocks.Store)
	m := compensate.NewManager(store, compensate.Config{}, zap.NewNop())

	assert.Equal(t, compensate.Summary{}, m.Delete(context.Background(), compensate.ReasonDropped, nil))
	store.AssertNumberOfCalls(t, "Delete", 0)
}

type panicStore struct{}

func (panicStore) Upload(ctx context.Context, data []byte, opts asset.Options) (asset.Uploaded, error) {
	return asset.Uploaded{}, nil
}

func (panicStore) Delete(ctx context.Context, ref asset.Reference) error {
	panic("driver bug")
}

func TestDelete_PanicIsContained(t *testing.T) {
	m := compensate.NewManager(panicStore{}, compensate.Config{}, zap.NewNop())

	var summary compensate.Summary
	assert.NotPanics(t, func() {
		summary = m.Delete(context.Background(), compensate.ReasonOrphan, []asset.Reference{"x"})
	})
	assert.Equal(t, 1, summary.Failed)
}

func TestDelete_IgnoresCallerCancellation(t *testing.T) {
	store := asset.NewMemoryStore("memory://assets")
	up, err := store.Upload(context.Background(), []byte("x"), asset.Options{Folder: "covers", PublicID: "x"})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := compensate.NewManager(store, compensate.Config{}, zap.NewNop())
	summary := m.Delete(ctx, compensate.ReasonDropped, []asset.Reference{up.Ref})

	assert.Equal(t, 1, summary.Deleted)
	assert.False(t, store.Has(up.Ref))
}
