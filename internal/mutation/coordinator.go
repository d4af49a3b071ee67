package mutation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/form"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/notify"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// Mode says whether a draft creates a new item or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Draft is an in-progress, unsaved create/edit payload. It exists while a
// form is open and is destroyed on close or successful submit.
type Draft[R any, P any] struct {
	Mode       Mode
	OriginalID int64
	Original   *R
	Payload    P
	FieldError string
	Open       bool

	submitting bool
}

// Mutator executes writes against one collection. *api.Resource satisfies it.
type Mutator[R any, P any] interface {
	Create(ctx context.Context, payload P) (*R, error)
	Update(ctx context.Context, id int64, payload P) (*R, error)
	Delete(ctx context.Context, id int64) error
}

// ListRefresher is the slice of the list controller the coordinator drives.
type ListRefresher interface {
	Refresh(ctx context.Context)
	RefetchAfterDelete(ctx context.Context)
}

// Coordinator sequences submit → resource call → list reconciliation →
// outcome reporting. At most one submit is in flight per draft and no
// mutation is retried automatically.
type Coordinator[R any, P any] struct {
	source   Mutator[R, P]
	gate     *form.Gate[P]
	listCtrl ListRefresher
	notifier notify.Notifier
	logger   *zap.Logger

	mu sync.Mutex
}

// NewCoordinator wires a coordinator to its collaborators.
func NewCoordinator[R any, P any](
	source Mutator[R, P],
	gate *form.Gate[P],
	listCtrl ListRefresher,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Coordinator[R, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator[R, P]{
		source:   source,
		gate:     gate,
		listCtrl: listCtrl,
		notifier: notifier,
		logger:   logger,
	}
}

// NewDraft opens a create-mode draft.
func (c *Coordinator[R, P]) NewDraft(payload P) *Draft[R, P] {
	return &Draft[R, P]{Mode: ModeCreate, Payload: payload, Open: true}
}

// EditDraft opens an edit-mode draft over an existing item.
func (c *Coordinator[R, P]) EditDraft(id int64, original *R, payload P) *Draft[R, P] {
	return &Draft[R, P]{Mode: ModeEdit, OriginalID: id, Original: original, Payload: payload, Open: true}
}

// Submit validates the draft and executes it. Success closes the draft and
// triggers a full refetch (the server may recompute denormalised names, so
// no optimistic patch). Failure leaves the draft open with a classified
// FieldError. A submit while one is already outstanding is ignored.
func (c *Coordinator[R, P]) Submit(ctx context.Context, draft *Draft[R, P]) error {
	c.mu.Lock()
	if draft.submitting || !draft.Open {
		c.mu.Unlock()
		return nil
	}
	draft.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		draft.submitting = false
		c.mu.Unlock()
	}()

	if violations := c.gate.Validate(draft.Payload); len(violations) > 0 {
		draft.FieldError = violations[0]
		return apperrors.Clone(apperrors.ErrValidation, violations[0])
	}

	var err error
	if draft.Mode == ModeCreate {
		_, err = c.source.Create(ctx, draft.Payload)
	} else {
		_, err = c.source.Update(ctx, draft.OriginalID, draft.Payload)
	}

	if err != nil {
		event := notify.Classify(err)
		if event.Inline {
			draft.FieldError = event.Message
		} else {
			notify.Dispatch(c.notifier, event)
		}
		c.logger.Warn("submit failed", zap.Int64("id", draft.OriginalID), zap.Error(err))
		return err
	}

	draft.FieldError = ""
	draft.Open = false
	c.listCtrl.Refresh(ctx)
	return nil
}

// Remove deletes an item after an explicit confirmation. The confirm gate
// is mandatory; a nil or declining confirm aborts without any call. Success
// applies the delete page-boundary rule and refetches; failure is reported
// and the list left untouched.
func (c *Coordinator[R, P]) Remove(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	if err := c.source.Delete(ctx, id); err != nil {
		notify.Dispatch(c.notifier, notify.Classify(err))
		c.logger.Warn("delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	c.listCtrl.RefetchAfterDelete(ctx)
	return nil
}
