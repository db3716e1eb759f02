// Package transcriber communicates with the external transcription worker.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/scribe-audio/scribe/internal/constants"
	"github.com/scribe-audio/scribe/internal/domain"
)

// Client talks to a transcription worker over HTTP. The worker exposes
// exactly two calls: submit a URL under a caller-chosen job id, and report
// the status of a previously submitted job.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("no worker base URL")
	}
	if !strings.HasPrefix(baseURL, "http") {
		return nil, fmt.Errorf("worker base URL must be http(s): %s", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
			},
		},
	}, nil
}

// Status is the worker's report for one job. Exactly one of the terminal
// flags (Completed, Error) is set on a terminal response; both false means
// the job is still in progress.
type Status struct {
	Completed            bool      `json:"completed"`
	Error                bool      `json:"error"`
	Transcript           []Segment `json:"transcript,omitempty"`
	VideoTitle           *string   `json:"video_title,omitempty"`
	VideoDurationSeconds *float64  `json:"video_duration_seconds,omitempty"`
	Stage                string    `json:"stage,omitempty"`
	Message              string    `json:"message,omitempty"`
}

// Segment is one utterance in the worker's wire format. Timestamp holds
// [started_at, ended_at] in seconds.
type Segment struct {
	Speaker   string     `json:"speaker"`
	Timestamp [2]float64 `json:"timestamp"`
	Text      string     `json:"text"`
}

// Result converts a completed status into the store's transcript shape,
// preserving segment order.
func (s *Status) Result() *domain.TranscriptResult {
	result := &domain.TranscriptResult{
		Title:    s.VideoTitle,
		Duration: s.VideoDurationSeconds,
	}
	for _, seg := range s.Transcript {
		result.Segments = append(result.Segments, domain.Segment{
			Speaker:   seg.Speaker,
			StartedAt: seg.Timestamp[0],
			EndedAt:   seg.Timestamp[1],
			Text:      seg.Text,
		})
	}
	return result
}

type submitRequest struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Submit asks the worker to transcribe url under jobID. Any non-2xx reply
// is a hard error; there is no retry.
func (c *Client) Submit(ctx context.Context, jobID, url string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.SubmitTimeout)
	defer cancel()

	body, err := json.Marshal(submitRequest{ID: jobID, URL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("worker submit failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("worker submit returned status %d", resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GetStatus returns the worker's status for jobID.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*Status, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker status failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("worker status returned status %d", resp.StatusCode)
	}

	status := &Status{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, fmt.Errorf("failed to decode worker status: %w", err)
	}
	return status, nil
}
