package collection

import (
	"context"
	"errors"
	"fmt"

	"media-manager/core/commit"
	"media-manager/core/ordering"
	"media-manager/core/record"

	"go.uber.org/zap"
)

// Service serves the record collections.
type Service struct {
	coordinator *commit.Coordinator
	orderer     *ordering.Persister
	records     record.Store
	logger      *zap.Logger
}

// NewService creates a new collection service.
func NewService(coordinator *commit.Coordinator, orderer *ordering.Persister, records record.Store, logger *zap.Logger) *Service {
	return &Service{
		coordinator: coordinator,
		orderer:     orderer,
		records:     records,
		logger:      logger,
	}
}

// Kind returns the policy of the named collection.
func (s *Service) Kind(name string) (commit.Kind, bool) {
	return s.coordinator.Kind(name)
}

// List returns the records of a kind in display order.
func (s *Service) List(ctx context.Context, kind string) ([]record.Record, error) {
	return s.records.List(ctx, record.Filter{Kind: kind})
}

// Get returns one record of a kind.
func (s *Service) Get(ctx context.Context, kind, id string) (*record.Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Kind != kind {
		return nil, fmt.Errorf("%s %s: %w", kind, id, record.ErrNotFound)
	}
	return rec, nil
}

// Latest returns the most recently updated record of a kind, or nil when it has none.
func (s *Service) Latest(ctx context.Context, kind string) (*record.Record, error) {
	rec, err := s.records.Latest(ctx, kind)
	if errors.Is(err, record.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// Save creates or edits a record with its images.
func (s *Service) Save(ctx context.Context, req commit.Request) (*commit.Result, error) {
	return s.coordinator.Commit(ctx, req)
}

// Remove deletes a record and its images.
func (s *Service) Remove(ctx context.Context, principal commit.Principal, kind, id string) (*commit.Result, error) {
	return s.coordinator.Delete(ctx, principal, kind, id)
}

// Reorder writes the display order of the principal's records of a kind.
func (s *Service) Reorder(ctx context.Context, principal commit.Principal, kind string, pairs []ordering.Pair) (*ordering.BatchOutcome, error) {
	if !principal.Authenticated() {
		return nil, &commit.AuthError{Err: commit.ErrUnauthenticated}
	}
	return s.orderer.Apply(ctx, ordering.Scope{Kind: kind, OwnerID: principal.ID}, pairs)
}
