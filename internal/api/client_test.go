package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

func TestClientForbiddenExpiresSessionOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/classes", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"statusCode": 403, "message": "forbidden"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	expired := 0
	sess.OnExpire(func() { expired++ })

	client := NewClient(ClientConfig{BaseURL: srv.URL}, sess, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/api/v1/classes", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsSession(err))
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, expired)

	// A second rejected call finds no credential and must not re-fire.
	_, err = client.Do(context.Background(), http.MethodGet, "/api/v1/classes", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, expired)
}

func TestClientServerMessageSurvives(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/classes", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"statusCode": 409, "message": "class name already exists"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL}, newTestSession(t), nil)

	_, err := client.Do(context.Background(), http.MethodPost, "/api/v1/classes", nil, models.ClassPayload{Name: "CNTT1"})
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "class name already exists", appErr.Message)
}

func TestClientNetworkFailure(t *testing.T) {
	// Point at a closed server so the dial fails.
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: base}, newTestSession(t), nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/api/v1/faculties", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestClientPlainTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL}, newTestSession(t), nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/api/v1/faculties", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "upstream exploded", apperrors.FromError(err).Message)
}
