package kiosk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/face"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
)

type markRecorder struct {
	mu    sync.Mutex
	marks []models.AttendanceMark
}

func newKioskBackend(t *testing.T, recorder *markRecorder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/face-descriptors", func(c *gin.Context) {
		descriptor := make([]float32, face.DescriptorSize)
		descriptor[0] = 1
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200,
			"data":       []gin.H{{"studentId": 42, "descriptor": descriptor}},
		})
	})
	r.POST("/api/v1/attendances", func(c *gin.Context) {
		var mark models.AttendanceMark
		require.NoError(t, c.ShouldBindJSON(&mark))
		recorder.mu.Lock()
		recorder.marks = append(recorder.marks, mark)
		recorder.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"statusCode": 201, "data": nil})
	})
	return r
}

func newKioskClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	sess := session.New(session.NewMemStore(), nil)
	require.NoError(t, sess.Login(context.Background(), models.TokenPair{AccessToken: "tok"}, nil))
	return api.NewClient(api.ClientConfig{BaseURL: baseURL}, sess, nil)
}

func matchingFrame() face.Descriptor {
	frame := make(face.Descriptor, face.DescriptorSize)
	frame[0] = 1.1
	return frame
}

func strangerFrame() face.Descriptor {
	frame := make(face.Descriptor, face.DescriptorSize)
	frame[0] = 9
	return frame
}

func TestRunnerMarksMatchedStudent(t *testing.T) {
	recorder := &markRecorder{}
	srv := httptest.NewServer(newKioskBackend(t, recorder))
	defer srv.Close()

	client := newKioskClient(t, srv.URL)
	matcher := face.NewMatcher(0.6)
	runner := NewRunner(face.NewStaticCapturer(matchingFrame()), matcher, client, nil, nil, nil, Config{TerminalID: "kiosk-1"})

	ctx := context.Background()
	require.NoError(t, runner.LoadGallery(ctx))
	assert.Equal(t, 1, matcher.Size())

	runner.step(ctx)

	require.Len(t, recorder.marks, 1)
	assert.Equal(t, int64(42), recorder.marks[0].StudentID)
	assert.Equal(t, "kiosk-1", recorder.marks[0].TerminalID)
	assert.Equal(t, "PRESENT", recorder.marks[0].Status)
	assert.NotEmpty(t, recorder.marks[0].CheckedAt)
}

func TestRunnerIgnoresUnmatchedFace(t *testing.T) {
	recorder := &markRecorder{}
	srv := httptest.NewServer(newKioskBackend(t, recorder))
	defer srv.Close()

	client := newKioskClient(t, srv.URL)
	matcher := face.NewMatcher(0.6)
	runner := NewRunner(face.NewStaticCapturer(strangerFrame()), matcher, client, nil, nil, nil, Config{TerminalID: "kiosk-1"})

	ctx := context.Background()
	require.NoError(t, runner.LoadGallery(ctx))

	runner.step(ctx)

	assert.Empty(t, recorder.marks)
}

func TestRunnerSkipsEmptyFrames(t *testing.T) {
	recorder := &markRecorder{}
	srv := httptest.NewServer(newKioskBackend(t, recorder))
	defer srv.Close()

	client := newKioskClient(t, srv.URL)
	runner := NewRunner(face.NewStaticCapturer(), face.NewMatcher(0.6), client, nil, nil, nil, Config{})

	runner.step(context.Background())

	assert.Empty(t, recorder.marks)
}
