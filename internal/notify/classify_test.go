package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category Category
		inline   bool
	}{
		{"duplicate english", apperrors.Clone(apperrors.ErrConflict, "Faculty name already exists"), CategoryAlreadyExists, true},
		{"duplicate vietnamese", apperrors.Clone(apperrors.ErrConflict, "Tên khoa đã tồn tại"), CategoryAlreadyExists, true},
		{"capacity", apperrors.New("HTTP_ERROR", 400, "Class is FULL"), CategoryCapacityExceeded, true},
		{"overlap", apperrors.New("HTTP_ERROR", 400, "Room conflict with schedule #12 on MONDAY 08:00"), CategoryScheduleConflict, true},
		{"overlap vietnamese", apperrors.New("HTTP_ERROR", 400, "Giảng viên bị trùng lịch"), CategoryScheduleConflict, true},
		{"session", apperrors.Clone(apperrors.ErrForbidden, ""), CategorySessionExpired, false},
		{"network", apperrors.Clone(apperrors.ErrNetwork, ""), CategoryNetwork, false},
		{"generic", apperrors.New("HTTP_ERROR", 500, "boom"), CategoryGeneric, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := Classify(tc.err)
			assert.Equal(t, tc.category, event.Category)
			assert.Equal(t, tc.inline, event.Inline)
			assert.NotEmpty(t, event.Message)
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// A message matching both duplicate and overlap markers classifies as
	// duplicate; the table is priority-ordered.
	err := apperrors.New("HTTP_ERROR", 400, "schedule already exists")
	assert.Equal(t, CategoryAlreadyExists, Classify(err).Category)
}

func TestClassifyConflictKeepsServerDetail(t *testing.T) {
	err := apperrors.New("HTTP_ERROR", 400, "room A102 conflict on MONDAY 08:00-10:00")
	event := Classify(err)
	assert.Equal(t, CategoryScheduleConflict, event.Category)
	assert.Contains(t, event.Message, "MONDAY 08:00-10:00", "the clashing slot must be named")
}

type sinkNotifier struct {
	toasts  int
	inlines int
}

func (s *sinkNotifier) Toast(Event)  { s.toasts++ }
func (s *sinkNotifier) Inline(Event) { s.inlines++ }

func TestDispatchRoutesToExactlyOneSurface(t *testing.T) {
	sink := &sinkNotifier{}

	Dispatch(sink, Event{Category: CategoryAlreadyExists, Inline: true})
	assert.Equal(t, 0, sink.toasts)
	assert.Equal(t, 1, sink.inlines)

	Dispatch(sink, Event{Category: CategoryGeneric})
	assert.Equal(t, 1, sink.toasts)
	assert.Equal(t, 1, sink.inlines)

	// Session expiry is signalled by the redirect hook, never rendered.
	Dispatch(sink, Event{Category: CategorySessionExpired})
	assert.Equal(t, 1, sink.toasts)
	assert.Equal(t, 1, sink.inlines)
}
