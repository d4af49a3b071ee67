package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

func newAuthBackend(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		var req struct {
			Account  string `json:"account"`
			Password string `json:"password"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))
		if req.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"statusCode": 401, "message": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200,
			"message":    "ok",
			"data":       gin.H{"access_token": "access-1", "refresh_token": "refresh-1"},
		})
	})
	r.GET("/api/v1/auth/me", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer access-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"statusCode": 401, "message": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200,
			"data":       gin.H{"id": 1, "account": "admin", "fullName": "Quan Tri", "role": "ADMIN"},
		})
	})
	r.POST("/api/v1/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"statusCode": 200, "data": nil})
	})
	return r
}

func newAuthClient(t *testing.T, baseURL string) (*Client, *session.Session) {
	t.Helper()
	sess := session.New(session.NewMemStore(), nil)
	core := api.NewClient(api.ClientConfig{BaseURL: baseURL}, sess, nil)
	return NewClient(core, sess, nil), sess
}

func TestLoginStoresSessionAndUser(t *testing.T) {
	srv := httptest.NewServer(newAuthBackend(t))
	defer srv.Close()

	client, sess := newAuthClient(t, srv.URL)

	user, err := client.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Quan Tri", user.FullName)

	assert.Equal(t, "access-1", sess.AccessToken())
	require.NotNil(t, sess.User())
	assert.Equal(t, "ADMIN", sess.User().Role)
}

func TestLoginRejectedLeavesSessionEmpty(t *testing.T) {
	srv := httptest.NewServer(newAuthBackend(t))
	defer srv.Close()

	client, sess := newAuthClient(t, srv.URL)

	_, err := client.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsSession(err))
	assert.False(t, sess.Authenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	srv := httptest.NewServer(newAuthBackend(t))
	defer srv.Close()

	client, sess := newAuthClient(t, srv.URL)
	_, err := client.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, sess.Authenticated())
}

func TestMeDecodesUser(t *testing.T) {
	srv := httptest.NewServer(newAuthBackend(t))
	defer srv.Close()

	client, sess := newAuthClient(t, srv.URL)
	require.NoError(t, sess.Login(context.Background(), models.TokenPair{AccessToken: "access-1"}, nil))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Account)
}
