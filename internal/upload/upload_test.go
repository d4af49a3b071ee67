package upload

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

func newUploadSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(session.NewMemStore(), nil)
	require.NoError(t, sess.Login(context.Background(), models.TokenPair{AccessToken: "tok"}, nil))
	return sess
}

func TestUploadProfileImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/students/:id/profile-image", func(c *gin.Context) {
		require.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
		file, err := c.FormFile("file")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(file.Filename, ".png"))
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200,
			"data":       gin.H{"imageUrl": "/media/students/12/profile.png"},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	uploader := NewImageUploader(srv.URL, nil, newUploadSession(t), nil)

	url, err := uploader.UploadProfileImage(context.Background(), 12, "image/png", bytes.NewReader([]byte("fake-png")))
	require.NoError(t, err)
	assert.Equal(t, "/media/students/12/profile.png", url)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	uploader := NewImageUploader("http://unused", nil, newUploadSession(t), nil)

	_, err := uploader.UploadProfileImage(context.Background(), 12, "application/pdf", bytes.NewReader(nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	uploader := NewImageUploader("http://unused", nil, newUploadSession(t), nil)

	big := bytes.NewReader(make([]byte, MaxImageSize+1))
	_, err := uploader.UploadProfileImage(context.Background(), 12, "image/png", big)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5MB")
}

func TestUploadForbiddenExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	sess := newUploadSession(t)
	uploader := NewImageUploader(srv.URL, nil, sess, nil)

	_, err := uploader.UploadProfileImage(context.Background(), 12, "image/png", bytes.NewReader([]byte("x")))
	require.Error(t, err)
	assert.False(t, sess.Authenticated())
}
