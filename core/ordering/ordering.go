package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"media-manager/core/record"

	"go.uber.org/zap"
)

// Pair asks for one record to take a place in the final ordering.
type Pair struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// Scope restricts a reorder to the records of one kind owned by one principal.
type Scope struct {
	Kind    string
	OwnerID string
}

// Item is one written position.
type Item struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// ItemFailure is one position that could not be written.
type ItemFailure struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Err      error  `json:"-"`
}

// Reason is the failure text exposed to clients.
func (f ItemFailure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// BatchOutcome reports every item of a reorder. Items written before a failure stay
// written: a reorder is not atomic across items.
type BatchOutcome struct {
	Applied []Item        `json:"applied"`
	Failed  []ItemFailure `json:"failed"`
}

// Complete reports whether every item was written.
func (o *BatchOutcome) Complete() bool {
	return len(o.Failed) == 0
}

// Err returns a *PartialError when any item failed.
func (o *BatchOutcome) Err() error {
	if o.Complete() {
		return nil
	}
	return &PartialError{Applied: len(o.Applied), Failed: o.Failed}
}

// PartialError reports a reorder that wrote only some items.
type PartialError struct {
	Applied int
	Failed  []ItemFailure
}

func (e *PartialError) Error() string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.ID
	}
	return fmt.Sprintf("reorder partially applied: %d written, %d failed (%s)", e.Applied, len(e.Failed), strings.Join(ids, ", "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}

var (
	// ErrInvalidRequest rejects a reorder before any write.
	ErrInvalidRequest = errors.New("invalid reorder request")
	// ErrOutOfScope reports a record of another kind or another owner.
	ErrOutOfScope = errors.New("record outside reorder scope")
)

// Persister writes record positions.
type Persister struct {
	records record.Store
	logger  *zap.Logger
}

// NewPersister creates a persister over records.
func NewPersister(records record.Store, logger *zap.Logger) *Persister {
	return &Persister{records: records, logger: logger}
}

// Normalize orders pairs by requested position, keeping request order for ties, and
// assigns consecutive positions starting at 1.
func Normalize(pairs []Pair) []Item {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	items := make([]Item, len(sorted))
	for i, p := range sorted {
		items[i] = Item{ID: p.ID, Position: i + 1}
	}
	return items
}

// Apply validates pairs and writes the normalized positions one by one.
// A request with an empty or repeated id is rejected with ErrInvalidRequest before any
// write. Afterwards every item is attempted even when earlier items failed, and the
// outcome lists both sides. Writes run to completion even if ctx is cancelled.
func (p *Persister) Apply(ctx context.Context, scope Scope, pairs []Pair) (*BatchOutcome, error) {
	if err := validate(pairs); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	outcome := &BatchOutcome{Applied: []Item{}, Failed: []ItemFailure{}}

	for _, item := range Normalize(pairs) {
		if err := p.write(ctx, scope, item); err != nil {
			outcome.Failed = append(outcome.Failed, ItemFailure{ID: item.ID, Position: item.Position, Err: err})
			p.logger.Warn("Reorder item failed",
				zap.String("kind", scope.Kind),
				zap.String("id", item.ID),
				zap.Int("position", item.Position),
				zap.Error(err))
			continue
		}
		outcome.Applied = append(outcome.Applied, item)
	}

	if !outcome.Complete() {
		p.logger.Warn("Reorder partially applied",
			zap.String("kind", scope.Kind),
			zap.Int("applied", len(outcome.Applied)),
			zap.Int("failed", len(outcome.Failed)))
	}
	return outcome, nil
}

func (p *Persister) write(ctx context.Context, scope Scope, item Item) error {
	rec, err := p.records.Get(ctx, item.ID)
	if err != nil {
		return err
	}
	if scope.Kind != "" && rec.Kind != scope.Kind {
		return fmt.Errorf("%w: %s is a %s", ErrOutOfScope, item.ID, rec.Kind)
	}
	if scope.OwnerID != "" && rec.OwnerID != scope.OwnerID {
		return fmt.Errorf("%w: %s belongs to another owner", ErrOutOfScope, item.ID)
	}

	if rec.Position == item.Position {
		return nil
	}
	position := item.Position
	return p.records.Update(ctx, item.ID, record.Patch{Position: &position})
}

func validate(pairs []Pair) error {
	if len(pairs) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidRequest)
	}
	seen := make(map[string]struct{}, len(pairs))
	for i, p := range pairs {
		if p.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidRequest, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: id %s appears twice", ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
