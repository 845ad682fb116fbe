package tasklog

import (
	"net/url"
	"strconv"
)

// ExternalLogLink builds the deep link for one externally-redirected attempt.
// Only attempts in the external partition should be given this link; inline
// attempts never produce one.
func ExternalLogLink(base, taskID, runID string, mapIndex *int, attempt int) string {
	q := externalQuery(taskID, runID, mapIndex)
	q.Set("try_number", strconv.Itoa(attempt))
	return base + "?" + q.Encode()
}

// SeeMoreLink builds the provider link offered alongside every attempt list,
// regardless of how attempts are classified.
func SeeMoreLink(base, taskID, runID string, mapIndex *int) string {
	return base + "?" + externalQuery(taskID, runID, mapIndex).Encode()
}

func externalQuery(taskID, runID string, mapIndex *int) url.Values {
	q := url.Values{}
	q.Set("task_id", taskID)
	q.Set("execution_date", runID)
	if mapIndex != nil {
		q.Set("map_index", strconv.Itoa(*mapIndex))
	}
	return q
}
