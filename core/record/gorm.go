package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps records in a SQL database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on db. Call Migrate once before use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the records table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate records: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, translate(err))
	}
	return &rec, nil
}

// Insert writes rec, assigning a UUID when rec.ID is empty, and returns the id.
func (s *GormStore) Insert(ctx context.Context, rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("failed to insert record: %w", translate(err))
	}
	return rec.ID, nil
}

// Update writes the fields set in patch. updated_at only moves when content changes, so
// a position-only patch leaves it as it was.
func (s *GormStore) Update(ctx context.Context, id string, patch Patch) error {
	var values Record
	var columns []string

	if patch.Title != nil {
		values.Title = *patch.Title
		columns = append(columns, "title")
	}
	if patch.Body != nil {
		values.Body = *patch.Body
		columns = append(columns, "body")
	}
	if patch.AssetRefs != nil {
		values.AssetRefs = *patch.AssetRefs
		columns = append(columns, "asset_refs")
	}
	if len(columns) > 0 {
		values.UpdatedAt = time.Now()
		columns = append(columns, "updated_at")
	}
	if patch.Position != nil {
		values.Position = *patch.Position
		columns = append(columns, "position")
	}
	if len(columns) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", id).
		Select(columns).
		Updates(&values)

	if result.Error != nil {
		return fmt.Errorf("failed to update record %s: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update record %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Record{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete record %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns matching records ordered by position, oldest first on ties.
func (s *GormStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := s.db.WithContext(ctx).Model(&Record{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var records []Record
	if err := query.Order("position ASC").Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", translate(err))
	}
	return records, nil
}

func (s *GormStore) MaxPosition(ctx context.Context, kind string) (int, error) {
	var max int
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("kind = ?", kind).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read max position: %w", translate(err))
	}
	return max, nil
}

func (s *GormStore) Latest(ctx context.Context, kind string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("updated_at DESC").
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read latest %s: %w", kind, translate(err))
	}
	return &rec, nil
}

// translate maps GORM errors onto the record error taxonomy, keeping the cause.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
