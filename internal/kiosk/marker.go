package kiosk

import (
	"context"
	"net/http"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
)

// Marker submits an attendance mark to the backend.
type Marker interface {
	Mark(ctx context.Context, mark models.AttendanceMark) error
}

type apiMarker struct {
	client *api.Client
}

// NewAPIMarker posts marks directly over the attendance endpoint.
func NewAPIMarker(client *api.Client) Marker {
	return apiMarker{client: client}
}

func (m apiMarker) Mark(ctx context.Context, mark models.AttendanceMark) error {
	_, err := m.client.Do(ctx, http.MethodPost, attendancePath, nil, mark)
	return err
}
