package notify

import (
	"strings"

	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// Category is the closed set of user-facing failure classes.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryAlreadyExists
	CategoryCapacityExceeded
	CategoryScheduleConflict
	CategorySessionExpired
	CategoryNetwork
	CategoryValidation
)

// Event is one classified failure ready for rendering. Inline events stay
// attached to the open form until the next submit; the rest are transient
// toasts. An event is rendered as one or the other, never both.
type Event struct {
	Category Category
	Message  string
	// Detail carries the raw server wording, kept for conflict events so
	// the specific clashing slot can be shown.
	Detail string
	Inline bool
}

// Substring tables are matched against the lowercased server message. The
// backend mixes English and Vietnamese wording, so both variants appear.
// This is a best-effort heuristic until structured error codes exist.
var (
	duplicateMarkers = []string{"already exists", "duplicate", "đã tồn tại", "da ton tai"}
	capacityMarkers  = []string{"full", "capacity", "đã đầy", "da day", "si so"}
	overlapMarkers   = []string{"overlap", "conflict", "schedule", "trùng lịch", "trung lich"}
)

// Classify maps a failure to a user-facing event, in priority order:
// duplicate, capacity, overlap, session, network, validation, generic.
func Classify(err error) Event {
	appErr := apperrors.FromError(err)
	if appErr == nil {
		return Event{}
	}

	raw := appErr.Message
	lowered := strings.ToLower(raw)

	switch {
	case containsAny(lowered, duplicateMarkers):
		return Event{
			Category: CategoryAlreadyExists,
			Message:  "already exists, choose another name",
			Detail:   raw,
			Inline:   true,
		}
	case containsAny(lowered, capacityMarkers):
		return Event{
			Category: CategoryCapacityExceeded,
			Message:  "class is full",
			Detail:   raw,
			Inline:   true,
		}
	case containsAny(lowered, overlapMarkers):
		return Event{
			Category: CategoryScheduleConflict,
			Message:  "conflicts with an existing schedule: " + raw,
			Detail:   raw,
			Inline:   true,
		}
	case apperrors.IsSession(err):
		// Fatal to the session: the credential is already cleared and the
		// redirect hook fired; never rendered as a toast.
		return Event{Category: CategorySessionExpired, Message: "session expired, please sign in again"}
	case apperrors.IsNetwork(err):
		return Event{Category: CategoryNetwork, Message: "cannot reach the server, please retry"}
	case appErr.Code == apperrors.ErrValidation.Code:
		return Event{Category: CategoryValidation, Message: raw, Inline: true}
	default:
		return Event{Category: CategoryGeneric, Message: "operation failed, please retry", Detail: raw}
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
