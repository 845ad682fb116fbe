package api

// TaskInstance is one task of one DAG run.
type TaskInstance struct {
	DAGID     string `json:"dagId"`
	RunID     string `json:"dagRunId"`
	TaskID    string `json:"taskId"`
	MapIndex  *int   `json:"mapIndex,omitempty"`
	TryNumber *int   `json:"tryNumber,omitempty"` // nil when the task has not run yet
	State     string `json:"state"`
	Operator  string `json:"operator,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// DAGRun is one execution of a DAG.
type DAGRun struct {
	DAGID         string `json:"dagId"`
	RunID         string `json:"dagRunId"`
	ExecutionDate string `json:"executionDate"`
	State         string `json:"state"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}

// TaskLogOptions selects which log blob to fetch for a task instance.
type TaskLogOptions struct {
	Attempt     int  // try number, 0 = live attempt
	MapIndex    *int // set for mapped task instances
	FullContent bool // request the complete log instead of the truncated head
}

// TaskLogsResponse is the raw log payload for one attempt. Content may
// concatenate several named log sources; the parser splits them apart.
type TaskLogsResponse struct {
	Content           string `json:"content"`
	ContinuationToken string `json:"continuationToken,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
