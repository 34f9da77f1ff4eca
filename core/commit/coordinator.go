package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"media-manager/core/asset"
	"media-manager/core/compensate"
	"media-manager/core/reconcile"
	"media-manager/core/record"
	"media-manager/core/upload"

	"go.uber.org/zap"
)

// Uploader validates and uploads batches of files.
type Uploader interface {
	Validate(files []upload.PendingFile) error
	Submit(ctx context.Context, folder string, files []upload.PendingFile) (*upload.BatchResult, error)
}

// Compensator deletes references on a best-effort basis.
type Compensator interface {
	Delete(ctx context.Context, reason compensate.Reason, refs []asset.Reference) compensate.Summary
}

// Coordinator drives record commits across the asset store and the record store.
type Coordinator struct {
	records     record.Store
	uploader    Uploader
	compensator Compensator
	kinds       map[string]Kind
	logger      *zap.Logger
}

// NewCoordinator creates a coordinator serving kinds.
func NewCoordinator(records record.Store, uploader Uploader, compensator Compensator, kinds []Kind, logger *zap.Logger) *Coordinator {
	byName := make(map[string]Kind, len(kinds))
	for _, k := range kinds {
		byName[k.Name] = k
	}
	return &Coordinator{
		records:     records,
		uploader:    uploader,
		compensator: compensator,
		kinds:       byName,
		logger:      logger,
	}
}

// Kind returns the policy registered under name.
func (c *Coordinator) Kind(name string) (Kind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// machine records the states one commit passes through.
type machine struct {
	state  State
	trail  []State
	logger *zap.Logger
}

func newMachine(logger *zap.Logger) *machine {
	m := &machine{state: StateValidating, trail: []State{StateValidating}, logger: logger}
	logger.Debug("Commit state", zap.String("state", string(StateValidating)))
	return m
}

func (m *machine) to(next State) {
	if !CanTransition(m.state, next) {
		m.logger.Error("Illegal commit transition",
			zap.String("from", string(m.state)),
			zap.String("to", string(next)))
	}
	m.state = next
	m.trail = append(m.trail, next)
	m.logger.Debug("Commit state", zap.String("state", string(next)))
}

func (m *machine) fail(stage State, err error) error {
	if m.state != StateFailed {
		m.to(StateFailed)
	}
	m.logger.Warn("Commit failed", zap.String("stage", string(stage)), zap.Error(err))
	return &Error{Stage: stage, Err: err, Trail: m.trail}
}

// Commit creates or edits a record together with its assets.
//
// Nothing is written before the request, the principal and the file batch are valid.
// New files are uploaded before the record is touched and a failed batch deletes whatever
// it uploaded. The final reference list is derived from the record's stored references,
// never from the client's list alone. If the record write fails only this attempt's
// uploads are deleted. References the edit dropped are deleted only after the write
// succeeded.
func (c *Coordinator) Commit(ctx context.Context, req Request) (*Result, error) {
	log := c.logger.With(zap.String("kind", req.Kind), zap.String("id", req.ID))
	m := newMachine(log)

	kind, previous, pending, retained, err := c.validate(ctx, req)
	if err != nil {
		return nil, m.fail(StateValidating, err)
	}

	var prevRefs []asset.Reference
	if previous != nil {
		prevRefs = previous.AssetRefs
	}

	m.to(StateUploading)
	batch, err := c.uploader.Submit(ctx, kind.Folder, pending)
	if err != nil {
		m.to(StateCompensatingUploads)
		if batch != nil {
			c.compensator.Delete(ctx, compensate.ReasonFailedBatch, batch.References())
		}
		return nil, m.fail(StateUploading, err)
	}
	uploaded := batch.References()

	m.to(StateReconciling)
	plan := reconcile.Reconcile(prevRefs, retained, uploaded)
	if len(plan.Rejected) > 0 {
		log.Warn("Ignoring references the record does not hold",
			zap.Strings("refs", asset.Strings(plan.Rejected)))
	}

	m.to(StatePersisting)
	id, created, err := c.persist(ctx, req, kind, previous, plan.Final)
	if err != nil {
		m.to(StateCompensatingNew)
		c.compensator.Delete(ctx, compensate.ReasonFailedPersist, uploaded)
		return nil, m.fail(StatePersisting, err)
	}

	m.to(StateDone)
	c.compensator.Delete(ctx, compensate.ReasonDropped, plan.ToRemove)

	log.Info("Record committed",
		zap.String("record_id", id),
		zap.Bool("created", created),
		zap.Int("refs", len(plan.Final)),
		zap.Int("uploaded", len(uploaded)),
		zap.Int("removed", len(plan.ToRemove)))

	return &Result{
		ID:      id,
		Created: created,
		Refs:    plan.Final,
		Removed: plan.ToRemove,
		Trail:   m.trail,
	}, nil
}

func (c *Coordinator) validate(ctx context.Context, req Request) (Kind, *record.Record, []upload.PendingFile, []asset.Reference, error) {
	if !req.Principal.Authenticated() {
		return Kind{}, nil, nil, nil, &AuthError{Err: ErrUnauthenticated}
	}

	kind, ok := c.kinds[req.Kind]
	if !ok {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not a known collection", req.Kind)}
	}

	title := strings.TrimSpace(req.Title)
	if kind.TitleRequired && title == "" {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "title", Reason: "is required"}
	}
	if kind.MaxTitle > 0 && utf8.RuneCountInString(title) > kind.MaxTitle {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "title", Reason: fmt.Sprintf("must be %d characters or less", kind.MaxTitle)}
	}

	if kind.BodyRequired && strings.TrimSpace(req.Body) == "" {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "body", Reason: "is required"}
	}

	retained, pending := req.split()
	if !kind.HasAssets() && len(req.Items) > 0 {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "images", Reason: "are not accepted by this collection"}
	}
	if err := c.uploader.Validate(pending); err != nil {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "images", Reason: err.Error(), Err: err}
	}

	var previous *record.Record
	if req.ID != "" {
		rec, err := c.load(ctx, req.Principal, kind, req.ID)
		if err != nil {
			return Kind{}, nil, nil, nil, err
		}
		previous = rec
	}

	var prevRefs []asset.Reference
	if previous != nil {
		prevRefs = previous.AssetRefs
	}
	total := len(reconcile.Reconcile(prevRefs, retained, nil).Final) + len(pending)
	if total < kind.MinAssets {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "images", Reason: fmt.Sprintf("at least %d required", kind.MinAssets)}
	}
	if kind.MaxAssets > 0 && total > kind.MaxAssets {
		return Kind{}, nil, nil, nil, &ValidationError{Field: "images", Reason: fmt.Sprintf("at most %d allowed", kind.MaxAssets)}
	}

	return kind, previous, pending, retained, nil
}

// load fetches a record the principal may change. Records of another kind are reported
// as missing.
func (c *Coordinator) load(ctx context.Context, principal Principal, kind Kind, id string) (*record.Record, error) {
	rec, err := c.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Kind != kind.Name {
		return nil, fmt.Errorf("%s %s: %w", kind.Name, id, record.ErrNotFound)
	}
	if rec.OwnerID != principal.ID {
		return nil, &AuthError{Err: ErrForbidden}
	}
	return rec, nil
}

func (c *Coordinator) persist(ctx context.Context, req Request, kind Kind, previous *record.Record, refs []asset.Reference) (string, bool, error) {
	title := strings.TrimSpace(req.Title)
	body := req.Body

	if previous != nil {
		err := c.records.Update(ctx, previous.ID, record.Patch{
			Title:     &title,
			Body:      &body,
			AssetRefs: &refs,
		})
		if err != nil {
			return "", false, &PersistError{Op: "update", Err: err}
		}
		return previous.ID, false, nil
	}

	last, err := c.records.MaxPosition(ctx, kind.Name)
	if err != nil {
		return "", false, &PersistError{Op: "insert", Err: err}
	}
	id, err := c.records.Insert(ctx, &record.Record{
		Kind:      kind.Name,
		Title:     title,
		Body:      body,
		AssetRefs: refs,
		OwnerID:   req.Principal.ID,
		Position:  last + 1,
	})
	if err != nil {
		return "", false, &PersistError{Op: "insert", Err: err}
	}
	return id, true, nil
}

// Delete removes a record and then the blobs it referenced.
func (c *Coordinator) Delete(ctx context.Context, principal Principal, kindName, id string) (*Result, error) {
	if !principal.Authenticated() {
		return nil, &Error{Stage: StateValidating, Err: &AuthError{Err: ErrUnauthenticated}}
	}
	kind, ok := c.kinds[kindName]
	if !ok {
		return nil, &Error{Stage: StateValidating, Err: &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not a known collection", kindName)}}
	}

	rec, err := c.load(ctx, principal, kind, id)
	if err != nil {
		return nil, &Error{Stage: StateValidating, Err: err}
	}

	if err := c.records.Delete(ctx, id); err != nil {
		return nil, &Error{Stage: StatePersisting, Err: &PersistError{Op: "delete", Err: err}}
	}

	c.compensator.Delete(ctx, compensate.ReasonRecordDeleted, rec.AssetRefs)
	c.logger.Info("Record deleted",
		zap.String("kind", kind.Name),
		zap.String("record_id", id),
		zap.Int("removed", len(rec.AssetRefs)))

	return &Result{ID: id, Refs: []asset.Reference{}, Removed: rec.AssetRefs}, nil
}

// IsValidation reports whether err rejected a request before any side effect because of
// its content.
func IsValidation(err error) bool {
	var v *ValidationError
	var uv *upload.ValidationError
	return errors.As(err, &v) || errors.As(err, &uv)
}
