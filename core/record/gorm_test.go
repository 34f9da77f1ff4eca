package record_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-manager/core/asset"
	"media-manager/core/database"
	"media-manager/core/record"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, record.Migrate(db))
	return db
}

// setupMockDB creates a GORM DB on sqlmock for failure paths.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := database.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}))
	require.NoError(t, err)
	return db, mock
}

func TestGormStore_InsertGet(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	refs := []asset.Reference{"memory://assets/displays/c.jpg", "memory://assets/displays/a.jpg", "memory://assets/displays/b.jpg"}
	id, err := store.Insert(ctx, &record.Record{
		Kind:      "galleries",
		Title:     "Summer",
		AssetRefs: refs,
		OwnerID:   "owner-1",
		Position:  1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Summer", rec.Title)
	assert.Equal(t, refs, rec.AssetRefs, "reference order must survive a round trip")
	assert.Equal(t, "owner-1", rec.OwnerID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestGormStore_InsertConflict(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Insert(ctx, &record.Record{ID: "fixed", Kind: "covers"})
	require.NoError(t, err)

	_, err = store.Insert(ctx, &record.Record{ID: "fixed", Kind: "covers"})
	assert.ErrorIs(t, err, record.ErrConflict)
}

func TestGormStore_Update(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	id, err := store.Insert(ctx, &record.Record{
		Kind:      "publications",
		Title:     "Old",
		Body:      "Keep me",
		AssetRefs: []asset.Reference{"a"},
		Position:  4,
	})
	require.NoError(t, err)

	title := "New"
	refs := []asset.Reference{"a", "b"}
	require.NoError(t, store.Update(ctx, id, record.Patch{Title: &title, AssetRefs: &refs}))

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", rec.Title)
	assert.Equal(t, "Keep me", rec.Body)
	assert.Equal(t, refs, rec.AssetRefs)
	assert.Equal(t, 4, rec.Position)

	t.Run("ZeroValues", func(t *testing.T) {
		empty := ""
		none := []asset.Reference{}
		zero := 0
		require.NoError(t, store.Update(ctx, id, record.Patch{Body: &empty, AssetRefs: &none, Position: &zero}))

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, rec.Body)
		assert.Empty(t, rec.AssetRefs)
		assert.Equal(t, 0, rec.Position)
	})

	t.Run("PositionOnlyKeepsUpdatedAt", func(t *testing.T) {
		before, err := store.Get(ctx, id)
		require.NoError(t, err)

		position := 9
		require.NoError(t, store.Update(ctx, id, record.Patch{Position: &position}))

		after, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 9, after.Position)
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	})

	t.Run("Missing", func(t *testing.T) {
		err := store.Update(ctx, "nope", record.Patch{Title: &title})
		assert.ErrorIs(t, err, record.ErrNotFound)

		position := 1
		err = store.Update(ctx, "nope", record.Patch{Position: &position})
		assert.ErrorIs(t, err, record.ErrNotFound)

		err = store.Update(ctx, "nope", record.Patch{})
		assert.ErrorIs(t, err, record.ErrNotFound)
	})
}

func TestGormStore_Latest(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Latest(ctx, "about")
	assert.ErrorIs(t, err, record.ErrNotFound)

	first, err := store.Insert(ctx, &record.Record{Kind: "about", Title: "First", Body: "one"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := store.Insert(ctx, &record.Record{Kind: "about", Title: "Second", Body: "two"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, &record.Record{Kind: "covers", Title: "Other"})
	require.NoError(t, err)

	latest, err := store.Latest(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)

	time.Sleep(5 * time.Millisecond)
	title := "First, edited"
	require.NoError(t, store.Update(ctx, first, record.Patch{Title: &title}))

	latest, err = store.Latest(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, first, latest.ID)
	assert.Equal(t, "First, edited", latest.Title)
}

func TestGormStore_Delete(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	id, err := store.Insert(ctx, &record.Record{Kind: "portraits"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, record.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, id), record.ErrNotFound)
}

func TestGormStore_ListAndMaxPosition(t *testing.T) {
	store := record.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	max, err := store.MaxPosition(ctx, "portraits")
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	for i, pos := range []int{3, 1, 2} {
		_, err := store.Insert(ctx, &record.Record{
			Kind:      "portraits",
			Title:     string(rune('a' + i)),
			Position:  pos,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
	_, err = store.Insert(ctx, &record.Record{Kind: "covers", Position: 9})
	require.NoError(t, err)

	list, err := store.List(ctx, record.Filter{Kind: "portraits"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{list[0].Position, list[1].Position, list[2].Position})

	max, err = store.MaxPosition(ctx, "portraits")
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}

func TestGormStore_Unavailable(t *testing.T) {
	db, mock := setupMockDB(t)
	store := record.NewGormStore(db)

	mock.ExpectQuery("SELECT (.+) FROM `records`").WillReturnError(errors.New("connection refused"))

	_, err := store.Get(context.Background(), "any")
	assert.ErrorIs(t, err, record.ErrUnavailable)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
