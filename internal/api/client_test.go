package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratushq/stratus/pkg/config"
)

func testToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(&config.Config{
		APIURL: server.URL,
		Token:  testToken(t),
	})
	require.NoError(t, err)
	return c
}

func TestFetchTaskLogs(t *testing.T) {
	ctx := context.Background()

	var gotPath, gotQuery, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content": "*** worker-1.log\n[2024-03-01T10:00:00.000+0000] INFO - hi"}`))
	})

	mapIndex := 3
	resp, err := c.FetchTaskLogs(ctx, "demo_dag", "run-1", "extract", TaskLogOptions{
		Attempt:     2,
		MapIndex:    &mapIndex,
		FullContent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/dags/demo_dag/dagRuns/run-1/taskInstances/extract/logs/2", gotPath)
	assert.Equal(t, "full_content=true&map_index=3", gotQuery)
	assert.Contains(t, gotAuth, "Bearer ")
	assert.Contains(t, resp.Content, "worker-1.log")
}

func TestFetchTaskLogsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := c.FetchTaskLogs(context.Background(), "demo_dag", "run-1", "extract", TaskLogOptions{Attempt: 1})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestRequestErrorResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "task instance not found"}`))
	})

	_, err := c.GetTaskInstance(context.Background(), "demo_dag", "run-1", "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task instance not found")
	assert.Contains(t, err.Error(), "404")
}

func TestRequestAuthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListDAGRuns(context.Background(), "demo_dag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestGetTaskInstance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dags/demo_dag/dagRuns/run-1/taskInstances/extract", r.URL.Path)
		_, _ = w.Write([]byte(`{"dagId": "demo_dag", "dagRunId": "run-1", "taskId": "extract", "tryNumber": 3, "state": "failed"}`))
	})

	ti, err := c.GetTaskInstance(context.Background(), "demo_dag", "run-1", "extract", nil)
	require.NoError(t, err)
	require.NotNil(t, ti.TryNumber)
	assert.Equal(t, 3, *ti.TryNumber)
	assert.Equal(t, "failed", ti.State)
}

func TestListDAGRuns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dags/demo_dag/dagRuns", r.URL.Path)
		_, _ = w.Write([]byte(`{"dagRuns": [{"dagRunId": "run-2", "state": "running"}, {"dagRunId": "run-1", "state": "success"}]}`))
	})

	runs, err := c.ListDAGRuns(context.Background(), "demo_dag")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
}
