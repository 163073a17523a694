// Package cds implements domain.DataService against the Copernicus Climate
// Data Store (CDS) API.
package cds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/climate-query-service/internal/domain"
)

// Task states reported by the CDS queue.
const (
	stateQueued    = "queued"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateFailed    = "failed"
)

// Client submits retrieve requests to the CDS API and polls the task queue
// until the result is ready for download. Requests authenticate with the
// UID:key pair from the user's .cdsapirc.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	key          string
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *slog.Logger
}

// NewClient creates a CDS client. key is the "UID:api-key" credential pair.
func NewClient(baseURL, key string, pollInterval, pollTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		key:          key,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}
}

type taskResponse struct {
	RequestID string `json:"request_id"`
	State     string `json:"state"`
	Location  string `json:"location,omitempty"`
	Error     struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error,omitempty"`
}

// Submit queues a retrieve call for the request's dataset and returns the
// provider's task handle.
func (c *Client) Submit(ctx context.Context, dataReq domain.DataRequest) (domain.DownloadLink, error) {
	body, err := json.Marshal(dataReq.Options)
	if err != nil {
		return domain.DownloadLink{}, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/resources/%s", c.baseURL, dataReq.DatasetName)
	task, err := c.doTaskRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return domain.DownloadLink{}, err
	}

	c.logger.Info("submitted data request",
		"dataset", dataReq.DatasetName,
		"request_id", task.RequestID,
		"state", task.State)

	return domain.DownloadLink{
		RequestID: task.RequestID,
		State:     task.State,
		Location:  task.Location,
	}, nil
}

// Resolve polls the task until it completes and returns the download URL.
// A failed task or an exhausted poll window is an error.
func (c *Client) Resolve(ctx context.Context, link domain.DownloadLink) (string, error) {
	if link.State == stateCompleted && link.Location != "" {
		return link.Location, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	u := fmt.Sprintf("%s/tasks/%s", c.baseURL, link.RequestID)
	for {
		task, err := c.doTaskRequest(ctx, http.MethodGet, u, nil)
		if err != nil {
			return "", err
		}

		switch task.State {
		case stateCompleted:
			return task.Location, nil
		case stateFailed:
			return "", fmt.Errorf("data request %s failed: %s: %s",
				link.RequestID, task.Error.Reason, task.Error.Message)
		case stateQueued, stateRunning:
			c.logger.Debug("data request pending", "request_id", link.RequestID, "state", task.State)
		default:
			return "", fmt.Errorf("data request %s in unknown state %q", link.RequestID, task.State)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for data request %s: %w", link.RequestID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Fetch downloads the result payload from the resolved URL.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cds download error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

func (c *Client) doTaskRequest(ctx context.Context, method, url string, body io.Reader) (taskResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return taskResponse{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return taskResponse{}, fmt.Errorf("cds request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return taskResponse{}, fmt.Errorf("cds API error: status %d: %s", resp.StatusCode, respBody)
	}

	var task taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return taskResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return task, nil
}

// authorize sets basic auth from the UID:key credential pair.
func (c *Client) authorize(req *http.Request) {
	uid, key, ok := strings.Cut(c.key, ":")
	if !ok {
		req.SetBasicAuth(c.key, "")
		return
	}
	req.SetBasicAuth(uid, key)
}
