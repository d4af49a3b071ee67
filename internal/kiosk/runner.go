package kiosk

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/face"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/metrics"
)

const (
	attendancePath  = api.APIPrefix + "/attendances"
	descriptorsPath = api.APIPrefix + "/face-descriptors"
)

// Config tunes the capture loop.
type Config struct {
	TerminalID      string
	CaptureInterval time.Duration
}

// Runner is the attendance terminal loop: capture a descriptor, match it
// against the registered gallery, and mark attendance for the matched
// student. Unmatched captures are counted, not submitted.
type Runner struct {
	capturer face.Capturer
	matcher  *face.Matcher
	client   *api.Client
	marker   Marker
	metrics  *metrics.Metrics
	logger   *zap.Logger
	cfg      Config
}

// NewRunner wires a runner. A nil marker submits marks synchronously over
// the client; pass a MarkQueue to decouple delivery from the capture loop.
func NewRunner(capturer face.Capturer, matcher *face.Matcher, client *api.Client, marker Marker, m *metrics.Metrics, logger *zap.Logger, cfg Config) *Runner {
	if cfg.CaptureInterval <= 0 {
		cfg.CaptureInterval = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if marker == nil {
		marker = NewAPIMarker(client)
	}
	return &Runner{capturer: capturer, matcher: matcher, client: client, marker: marker, metrics: m, logger: logger, cfg: cfg}
}

// LoadGallery pulls the registered descriptors from the backend into the
// matcher.
func (r *Runner) LoadGallery(ctx context.Context) error {
	envelope, err := r.client.Do(ctx, http.MethodGet, descriptorsPath, nil, nil)
	if err != nil {
		return err
	}
	result, err := api.DecodeList[models.FaceDescriptor](envelope.Data)
	if err != nil {
		return err
	}
	for _, record := range result.Items {
		r.matcher.Register(record.StudentID, face.Descriptor(record.Descriptor))
	}
	r.logger.Info("face gallery loaded", zap.Int("descriptors", r.matcher.Size()))
	return nil
}

// Run drives the capture loop until the context ends.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.CaptureInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.step(ctx)
		}
	}
}

func (r *Runner) step(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.ObserveCapture()
	}

	descriptor, err := r.capturer.Capture(ctx)
	if err != nil {
		if !errors.Is(err, face.ErrNoFace) && !errors.Is(err, context.Canceled) {
			r.logger.Warn("capture failed", zap.Error(err))
		}
		return
	}

	match, ok := r.matcher.Match(descriptor)
	if !ok {
		if r.metrics != nil {
			r.metrics.ObserveMatch("unmatched")
		}
		r.logger.Info("face not recognised")
		return
	}
	if r.metrics != nil {
		r.metrics.ObserveMatch("matched")
	}

	mark := models.AttendanceMark{
		StudentID:  match.StudentID,
		TerminalID: r.cfg.TerminalID,
		Status:     "PRESENT",
		CheckedAt:  time.Now().Format(time.RFC3339),
	}
	if err := r.marker.Mark(ctx, mark); err != nil {
		r.logger.Warn("attendance mark failed", zap.Int64("student", match.StudentID), zap.Error(err))
		return
	}
	r.logger.Info("attendance marked",
		zap.Int64("student", match.StudentID),
		zap.Float64("distance", match.Distance),
	)
}
