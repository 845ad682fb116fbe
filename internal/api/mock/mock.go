// Package mock provides a testify-based mock of the api.Client interface.
//
// Usage in tests:
//
//	mockClient := mock.NewMockClient(t)
//	mockClient.On("FetchTaskLogs", ctx, "dag", "run", "task", opts).
//	    Return(&api.TaskLogsResponse{Content: "..."}, nil)
package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/stratushq/stratus/internal/api"
)

// MockClient implements api.Client for tests.
type MockClient struct {
	mock.Mock
}

var _ api.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient whose expectations are asserted when the
// test completes.
func NewMockClient(t *testing.T) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClient) GetTaskInstance(ctx context.Context, dagID, runID, taskID string, mapIndex *int) (*api.TaskInstance, error) {
	args := m.Called(ctx, dagID, runID, taskID, mapIndex)
	ti, _ := args.Get(0).(*api.TaskInstance)
	return ti, args.Error(1)
}

func (m *MockClient) ListTaskInstances(ctx context.Context, dagID, runID string) ([]api.TaskInstance, error) {
	args := m.Called(ctx, dagID, runID)
	tis, _ := args.Get(0).([]api.TaskInstance)
	return tis, args.Error(1)
}

func (m *MockClient) ListDAGRuns(ctx context.Context, dagID string) ([]api.DAGRun, error) {
	args := m.Called(ctx, dagID)
	runs, _ := args.Get(0).([]api.DAGRun)
	return runs, args.Error(1)
}

func (m *MockClient) FetchTaskLogs(ctx context.Context, dagID, runID, taskID string, opts api.TaskLogOptions) (*api.TaskLogsResponse, error) {
	args := m.Called(ctx, dagID, runID, taskID, opts)
	resp, _ := args.Get(0).(*api.TaskLogsResponse)
	return resp, args.Error(1)
}
