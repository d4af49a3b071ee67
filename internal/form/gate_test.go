package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
)

func TestGateRequiredField(t *testing.T) {
	gate := NewGate[models.FacultyPayload](NewValidator())

	violations := gate.Validate(models.FacultyPayload{})
	require.Len(t, violations, 1)
	assert.Equal(t, "facultyName is required", violations[0])

	assert.Empty(t, gate.Validate(models.FacultyPayload{Name: "IT"}))
}

func TestGateFieldFormats(t *testing.T) {
	gate := NewGate[models.LecturerPayload](NewValidator())

	violations := gate.Validate(models.LecturerPayload{
		Code:      "GV01",
		FullName:  "Nguyen Van A",
		Email:     "not-an-email",
		FacultyID: 1,
	})
	require.Len(t, violations, 1)
	assert.Equal(t, "email must be a valid email address", violations[0])
}

func TestGateNumericRange(t *testing.T) {
	gate := NewGate[models.ClassPayload](NewValidator())

	violations := gate.Validate(models.ClassPayload{Name: "CNTT1", Capacity: 500, AdvisorID: 1})
	require.Len(t, violations, 1)
	assert.Equal(t, "capacityStudent must be at most 200", violations[0])
}

func TestGateCrossFieldRules(t *testing.T) {
	endAfterStart := func(p models.TeachingSchedulePayload) string {
		if p.EndTime <= p.StartTime {
			return "endTime must be after startTime"
		}
		return ""
	}
	gate := NewGate[models.TeachingSchedulePayload](NewValidator(), endAfterStart)

	payload := models.TeachingSchedulePayload{
		CourseID:   1,
		LecturerID: 1,
		ClassID:    1,
		RoomID:     1,
		DayOfWeek:  "MONDAY",
		StartDate:  "2025-09-01",
		EndDate:    "2025-12-20",
		StartTime:  "10:00",
		EndTime:    "08:00",
	}
	violations := gate.Validate(payload)
	require.Len(t, violations, 1)
	assert.Equal(t, "endTime must be after startTime", violations[0])

	payload.EndTime = "11:30"
	assert.Empty(t, gate.Validate(payload))
}
