package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/stratushq/stratus/internal/auth"
	"github.com/stratushq/stratus/pkg/config"
)

// client is the orchestrator API client
type client struct {
	config     *config.Config
	httpClient *http.Client
}

var _ Client = (*client)(nil)

// NewClient creates a new API client
func NewClient(cfg *config.Config) (Client, error) {
	return &client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// request makes an HTTP request to the orchestrator API with retry logic
func (c *client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var respBody []byte
	attempt := 0

	err := retry.Do(
		func() error {
			attempt++

			reqURL := c.config.APIURL + "/" + path

			slog.Debug("API request",
				"method", method,
				"path", path,
				"url", reqURL,
				"attempt", attempt,
			)

			var bodyReader io.Reader
			if body != nil {
				jsonBody, err := json.Marshal(body)
				if err != nil {
					return retry.Unrecoverable(fmt.Errorf("failed to marshal request body: %w", err))
				}
				bodyReader = bytes.NewBuffer(jsonBody)
			}

			req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Source", "cli")

			token, err := auth.GetToken(c.config)
			if err != nil {
				slog.Error("Failed to get auth token", "error", err)
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+token)

			startTime := time.Now()
			resp, err := c.httpClient.Do(req)
			duration := time.Since(startTime)

			if err != nil {
				slog.Warn("HTTP request failed",
					"error", err,
					"method", method,
					"path", path,
					"duration", duration,
					"attempt", attempt,
				)
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close() //nolint:errcheck // Deferred close, error not actionable

			respBody, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			slog.Debug("API response",
				"statusCode", resp.StatusCode,
				"responseSize", len(respBody),
				"duration", duration,
				"method", method,
				"path", path,
			)

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}

			if resp.StatusCode == 401 || resp.StatusCode == 403 {
				slog.Warn("Authentication failed", "statusCode", resp.StatusCode, "path", path)
				return retry.Unrecoverable(fmt.Errorf("authentication failed. Check your API token"))
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
				slog.Error("API error",
					"statusCode", resp.StatusCode,
					"message", errResp.Message,
					"path", path,
					"method", method,
				)
				return retry.Unrecoverable(fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Message))
			}

			slog.Error("API error",
				"statusCode", resp.StatusCode,
				"response", string(respBody),
				"path", path,
				"method", method,
			)
			return retry.Unrecoverable(fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody)))
		},
		retry.Attempts(2),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}

// GetTaskInstance retrieves one task instance of a DAG run
func (c *client) GetTaskInstance(ctx context.Context, dagID, runID, taskID string, mapIndex *int) (*TaskInstance, error) {
	path := fmt.Sprintf("dags/%s/dagRuns/%s/taskInstances/%s", dagID, runID, taskID)
	if mapIndex != nil {
		path += "/mapped/" + strconv.Itoa(*mapIndex)
	}

	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var ti TaskInstance
	if err := json.Unmarshal(body, &ti); err != nil {
		return nil, fmt.Errorf("failed to parse task instance response: %w", err)
	}

	return &ti, nil
}

// ListTaskInstances retrieves all task instances of a DAG run
func (c *client) ListTaskInstances(ctx context.Context, dagID, runID string) ([]TaskInstance, error) {
	path := fmt.Sprintf("dags/%s/dagRuns/%s/taskInstances", dagID, runID)
	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		TaskInstances []TaskInstance `json:"taskInstances"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse task instances response: %w", err)
	}

	return resp.TaskInstances, nil
}

// ListDAGRuns retrieves the runs of a DAG
func (c *client) ListDAGRuns(ctx context.Context, dagID string) ([]DAGRun, error) {
	path := fmt.Sprintf("dags/%s/dagRuns", dagID)
	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		DAGRuns []DAGRun `json:"dagRuns"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse dag runs response: %w", err)
	}

	return resp.DAGRuns, nil
}

// FetchTaskLogs retrieves the raw log blob for one attempt of a task instance
func (c *client) FetchTaskLogs(ctx context.Context, dagID, runID, taskID string, opts TaskLogOptions) (*TaskLogsResponse, error) {
	path := fmt.Sprintf("dags/%s/dagRuns/%s/taskInstances/%s/logs/%d", dagID, runID, taskID, opts.Attempt)

	params := url.Values{}
	if opts.MapIndex != nil {
		params.Set("map_index", strconv.Itoa(*opts.MapIndex))
	}
	if opts.FullContent {
		params.Set("full_content", "true")
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	// 204 No Content - attempt has produced no logs yet
	if len(body) == 0 {
		return &TaskLogsResponse{}, nil
	}

	var response TaskLogsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse task logs response: %w", err)
	}

	return &response, nil
}
