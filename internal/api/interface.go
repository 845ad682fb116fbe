package api

import "context"

// Client talks to the orchestrator's REST API. The log viewer only ever
// consumes raw log content and task metadata; parsing and filtering happen
// client-side.
type Client interface {
	// GetTaskInstance returns metadata for one task instance of a DAG run,
	// including the try number that drives the attempt partition.
	GetTaskInstance(ctx context.Context, dagID, runID, taskID string, mapIndex *int) (*TaskInstance, error)

	// ListTaskInstances returns all task instances of a DAG run.
	ListTaskInstances(ctx context.Context, dagID, runID string) ([]TaskInstance, error)

	// ListDAGRuns returns the runs of a DAG, most recent first.
	ListDAGRuns(ctx context.Context, dagID string) ([]DAGRun, error)

	// FetchTaskLogs returns the raw log blob for one (task, attempt,
	// full-content) key.
	FetchTaskLogs(ctx context.Context, dagID, runID, taskID string, opts TaskLogOptions) (*TaskLogsResponse, error)
}
