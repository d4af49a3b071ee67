package resources

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
)

func newManagerTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(session.NewMemStore(), nil)
	require.NoError(t, sess.Login(context.Background(), models.TokenPair{AccessToken: "test-token"}, nil))
	return api.NewClient(api.ClientConfig{BaseURL: srv.URL}, sess, nil)
}

func TestClassDatasetJoinsAdvisorNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lecturerLookups := 0

	r := gin.New()
	r.GET("/api/v1/classes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200, "message": "ok", "path": "/api/v1/classes",
			"data": []gin.H{
				{"id": 1, "className": "SE1", "capacityStudent": 40, "lecturerId": 9},
				{"id": 2, "className": "SE2", "capacityStudent": 35, "lecturerId": 9},
			},
		})
	})
	r.GET("/api/v1/lecturers/:id", func(c *gin.Context) {
		lecturerLookups++
		assert.Equal(t, "9", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200, "message": "ok", "path": "/api/v1/lecturers/9",
			"data": gin.H{"id": 9, "lecturerCode": "GV09", "fullName": "Nguyen Van Binh"},
		})
	})

	client := newManagerTestClient(t, r)
	m := NewClassManager(client, Options{PageSize: 5})

	ctx := context.Background()
	m.List.Refresh(ctx)
	require.Empty(t, m.List.State().Err)

	dataset := m.Dataset(ctx)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "Nguyen Van Binh", dataset.Rows[0]["advisor"])
	assert.Equal(t, "Nguyen Van Binh", dataset.Rows[1]["advisor"])
	assert.Equal(t, 1, lecturerLookups, "distinct advisor ids resolve once")
}

func TestDatasetWithoutJoinLeavesRowsAsFetched(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/api/v1/faculties", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"statusCode": 200, "message": "ok", "path": "/api/v1/faculties",
			"data": []gin.H{{"id": 1, "facultyName": "Engineering"}},
		})
	})

	client := newManagerTestClient(t, r)
	m := NewFacultyManager(client, Options{PageSize: 5})

	ctx := context.Background()
	m.List.Refresh(ctx)
	require.Empty(t, m.List.State().Err)

	dataset := m.Dataset(ctx)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "Engineering", dataset.Rows[0]["name"])
}
