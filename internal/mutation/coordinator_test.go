package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/form"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/notify"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

const (
	testWait = time.Second
	testTick = 5 * time.Millisecond
)

type fakeMutator struct {
	mu          sync.Mutex
	creates     int
	updates     int
	deletes     []int64
	createErr   error
	updateErr   error
	deleteErr   error
	lastPayload models.FacultyPayload
	block       chan struct{}
}

func (f *fakeMutator) Create(ctx context.Context, payload models.FacultyPayload) (*models.Faculty, error) {
	f.mu.Lock()
	f.creates++
	f.lastPayload = payload
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Faculty{ID: 1, Name: payload.Name}, nil
}

func (f *fakeMutator) Update(ctx context.Context, id int64, payload models.FacultyPayload) (*models.Faculty, error) {
	f.mu.Lock()
	f.updates++
	f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Faculty{ID: id, Name: payload.Name}, nil
}

func (f *fakeMutator) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.mu.Unlock()
	return f.deleteErr
}

type fakeRefresher struct {
	refreshes     int
	deleteFetches int
}

func (f *fakeRefresher) Refresh(ctx context.Context)            { f.refreshes++ }
func (f *fakeRefresher) RefetchAfterDelete(ctx context.Context) { f.deleteFetches++ }

type recordingNotifier struct {
	toasts  []notify.Event
	inlines []notify.Event
}

func (n *recordingNotifier) Toast(event notify.Event)  { n.toasts = append(n.toasts, event) }
func (n *recordingNotifier) Inline(event notify.Event) { n.inlines = append(n.inlines, event) }

func newTestCoordinator(mutator *fakeMutator, refresher *fakeRefresher, notifier notify.Notifier) *Coordinator[models.Faculty, models.FacultyPayload] {
	gate := form.NewGate[models.FacultyPayload](form.NewValidator())
	return NewCoordinator[models.Faculty, models.FacultyPayload](mutator, gate, refresher, notifier, nil)
}

func TestSubmitCreateSuccess(t *testing.T) {
	mutator := &fakeMutator{}
	refresher := &fakeRefresher{}
	coord := newTestCoordinator(mutator, refresher, nil)

	draft := coord.NewDraft(models.FacultyPayload{Name: "IT"})
	require.NoError(t, coord.Submit(context.Background(), draft))

	assert.Equal(t, 1, mutator.creates)
	assert.Equal(t, 1, refresher.refreshes, "success triggers a full refetch")
	assert.False(t, draft.Open)
	assert.Empty(t, draft.FieldError)
}

func TestSubmitBlockedByValidationBeforeNetwork(t *testing.T) {
	mutator := &fakeMutator{}
	refresher := &fakeRefresher{}
	coord := newTestCoordinator(mutator, refresher, nil)

	draft := coord.NewDraft(models.FacultyPayload{Name: ""})
	err := coord.Submit(context.Background(), draft)

	require.Error(t, err)
	assert.Equal(t, "facultyName is required", draft.FieldError)
	assert.Zero(t, mutator.creates, "no network call may happen")
	assert.Zero(t, refresher.refreshes)
	assert.True(t, draft.Open)
}

func TestSubmitConflictLeavesDraftOpen(t *testing.T) {
	mutator := &fakeMutator{
		updateErr: apperrors.Clone(apperrors.ErrConflict, "faculty already exists"),
	}
	refresher := &fakeRefresher{}
	coord := newTestCoordinator(mutator, refresher, nil)

	draft := coord.EditDraft(3, nil, models.FacultyPayload{Name: "IT"})
	err := coord.Submit(context.Background(), draft)

	require.Error(t, err)
	assert.True(t, draft.Open)
	assert.Equal(t, "already exists, choose another name", draft.FieldError)
	assert.Zero(t, refresher.refreshes, "list state stays unchanged on failure")
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	block := make(chan struct{})
	mutator := &fakeMutator{block: block}
	refresher := &fakeRefresher{}
	coord := newTestCoordinator(mutator, refresher, nil)

	draft := coord.NewDraft(models.FacultyPayload{Name: "IT"})

	done := make(chan error, 1)
	go func() { done <- coord.Submit(context.Background(), draft) }()

	require.Eventually(t, func() bool {
		mutator.mu.Lock()
		defer mutator.mu.Unlock()
		return mutator.creates == 1
	}, testWait, testTick)

	// Second submit while the first is outstanding is a no-op.
	require.NoError(t, coord.Submit(context.Background(), draft))
	close(block)
	require.NoError(t, <-done)

	assert.Equal(t, 1, mutator.creates)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	mutator := &fakeMutator{}
	refresher := &fakeRefresher{}
	coord := newTestCoordinator(mutator, refresher, nil)

	require.NoError(t, coord.Remove(context.Background(), 7, nil))
	require.NoError(t, coord.Remove(context.Background(), 7, func() bool { return false }))
	assert.Empty(t, mutator.deletes, "no destructive action without a yes")

	require.NoError(t, coord.Remove(context.Background(), 7, func() bool { return true }))
	assert.Equal(t, []int64{7}, mutator.deletes)
	assert.Equal(t, 1, refresher.deleteFetches, "boundary-corrected refetch after delete")
}

func TestRemoveFailureReportsAndLeavesList(t *testing.T) {
	mutator := &fakeMutator{deleteErr: apperrors.Clone(apperrors.ErrInternal, "boom")}
	refresher := &fakeRefresher{}
	notifier := &recordingNotifier{}
	coord := newTestCoordinator(mutator, refresher, notifier)

	err := coord.Remove(context.Background(), 7, func() bool { return true })
	require.Error(t, err)
	assert.Zero(t, refresher.deleteFetches)
	assert.Len(t, notifier.toasts, 1)
	assert.Empty(t, notifier.inlines)
}
