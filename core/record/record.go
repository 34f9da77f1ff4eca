package record

import (
	"context"
	"errors"
	"time"

	"media-manager/core/asset"
)

// Record is one entity row (a publication, gallery, portrait, cover or the about page) and the ordered
// references to the blobs it displays.
type Record struct {
	ID        string            `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Kind      string            `gorm:"column:kind;type:varchar(32);not null;index:idx_records_kind_position,priority:1" json:"kind"`
	Title     string            `gorm:"column:title;type:varchar(200)" json:"title"`
	Body      string            `gorm:"column:body;type:text" json:"body,omitempty"`
	AssetRefs []asset.Reference `gorm:"column:asset_refs;type:text;serializer:json" json:"asset_refs"`
	OwnerID   string            `gorm:"column:owner_id;type:varchar(64);index" json:"owner_id"`
	Position  int               `gorm:"column:position;index:idx_records_kind_position,priority:2" json:"position"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

// TableName pins the table name.
func (Record) TableName() string {
	return "records"
}

// Patch lists the fields an update replaces. Nil fields are left untouched.
// Position is ordering, not content, and does not touch UpdatedAt.
type Patch struct {
	Title     *string
	Body      *string
	AssetRefs *[]asset.Reference
	Position  *int
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Kind    string
	OwnerID string
}

var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a write colliding with an existing row.
	ErrConflict = errors.New("record conflict")
	// ErrUnavailable reports a store that could not serve the call.
	ErrUnavailable = errors.New("record store unavailable")
)

// Store is the authoritative holder of records.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Insert(ctx context.Context, rec *Record) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]Record, error)
	// MaxPosition returns the highest position used within kind, 0 when empty.
	MaxPosition(ctx context.Context, kind string) (int, error)
	// Latest returns the most recently updated record of kind, ErrNotFound when empty.
	Latest(ctx context.Context, kind string) (*Record, error)
}
