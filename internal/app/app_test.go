package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"taskManager/internal/app"
	"taskManager/internal/config"
	"taskManager/internal/handlers/dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Database.URL = "memory://"

	a := app.New(cfg)
	require.NoError(t, a.Init(context.Background()))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, a.Shutdown(context.Background()))
	})
	return srv
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/tasks", `{"title":"Write spec"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, "", created.Description)
	assert.Equal(t, "To Do", created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	resp = doRequest(t, http.MethodPut, srv.URL+"/tasks/"+created.ID, `{"status":"Done"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Write spec", updated.Title)
	assert.Equal(t, "Done", updated.Status)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	resp = doRequest(t, http.MethodGet, srv.URL+"/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Done", list[0].Status)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/tasks/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Task not found", errResp.Message)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/nope", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Route not found", errResp.Message)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp := doRequest(t, http.MethodGet, srv.URL+path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health dto.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.True(t, health.OK, path)
	}
}

func TestResponseHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestInitFailsOnBadStorageURL(t *testing.T) {
	cfg := config.Default()
	cfg.Database.URL = "ftp://nowhere"

	a := app.New(cfg)
	assert.Error(t, a.Init(context.Background()))
	assert.NoError(t, a.Shutdown(context.Background()))
}
