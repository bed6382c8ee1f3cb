package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-directory/internal/repository/sqlite"
	"user-directory/internal/service"
)

// newIntegrationRouter wires the full stack over an in-memory database.
func newIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewHandler(service.NewUserService(repo, logger), logger, false).RegisterRoutes(router)
	return router
}

func TestRoundTrip(t *testing.T) {
	router := newIntegrationRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users",
		`{"name":"John Doe","email":"John.Doe@Example.com","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := userFromResponse(t, resp)
	id, _ := created["id"].(string)
	require.Regexp(t, `^[0-9a-f]{24}$`, id)

	rec, resp = doRequest(t, router, http.MethodGet, "/api/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	fetched := userFromResponse(t, resp)
	assert.Equal(t, "john.doe@example.com", fetched["email"])
	assert.Equal(t, "active", fetched["status"])
	assert.Equal(t, float64(30), fetched["age"])
}

func TestDuplicateEmailCaseInsensitive(t *testing.T) {
	router := newIntegrationRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/api/users",
		`{"name":"John Doe","email":"john.doe@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users",
		`{"name":"Another John","email":"  JOHN.DOE@example.com "}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists", resp.Message)
}

func TestDeleteTwice(t *testing.T) {
	router := newIntegrationRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users",
		`{"name":"John Doe","email":"john@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := userFromResponse(t, resp)["id"].(string)

	rec, _ = doRequest(t, router, http.MethodDelete, "/api/users/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doRequest(t, router, http.MethodDelete, "/api/users/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", resp.Message)
}

func TestUpdateRefreshesRecord(t *testing.T) {
	router := newIntegrationRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users",
		`{"name":"John Doe","email":"john@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := userFromResponse(t, resp)["id"].(string)

	rec, resp = doRequest(t, router, http.MethodPut, "/api/users/"+id,
		`{"status":"inactive","age":41}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := userFromResponse(t, resp)
	assert.Equal(t, "inactive", updated["status"])
	assert.Equal(t, float64(41), updated["age"])
	assert.Equal(t, "John Doe", updated["name"])
}

func TestListAndStatsFlow(t *testing.T) {
	router := newIntegrationRouter(t)

	users := []string{
		`{"name":"Alice","email":"alice@example.com","age":30}`,
		`{"name":"Bob","email":"bob@example.com","age":20}`,
		`{"name":"Carol","email":"carol@example.com","status":"inactive"}`,
	}
	for _, body := range users {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/users", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp := doRequest(t, router, http.MethodGet, "/api/users?status=active&sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	list := data["users"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].(map[string]any)["name"])
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["totalUsers"])
	assert.Equal(t, float64(1), pagination["totalPages"])
	assert.Equal(t, false, pagination["hasNextPage"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/users/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp.Data.(map[string]any)["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["totalUsers"])
	assert.Equal(t, float64(2), stats["activeUsers"])
	assert.Equal(t, float64(1), stats["inactiveUsers"])
	assert.InDelta(t, 25.0, stats["averageAge"].(float64), 0.001)
}

func TestPaginationAcrossPages(t *testing.T) {
	router := newIntegrationRouter(t)

	for i := 0; i < 12; i++ {
		body := fmt.Sprintf(`{"name":"User %02d","email":"user%02d@example.com"}`, i, i)
		rec, _ := doRequest(t, router, http.MethodPost, "/api/users", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp := doRequest(t, router, http.MethodGet, "/api/users?page=2&limit=5&sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	list := data["users"].([]any)
	require.Len(t, list, 5)
	assert.Equal(t, "User 05", list[0].(map[string]any)["name"])

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(12), pagination["totalUsers"])
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, true, pagination["hasNextPage"])
	assert.Equal(t, true, pagination["hasPrevPage"])
}

func userFromResponse(t *testing.T, resp Response) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	return user
}
