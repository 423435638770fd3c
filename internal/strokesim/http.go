package strokesim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/geodraw/internal/domain/types"
	"github.com/okian/geodraw/pkg/logger"
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// workerChannelMultiplier sizes job channels relative to the worker count.
const workerChannelMultiplier = 2

// HTTPClient wraps http.Client with a base URL and timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body. A nil body sends none.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches path and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// createSession starts a game session and returns its id.
func (c *HTTPClient) createSession(ctx context.Context) (string, error) {
	resp, err := c.Post(ctx, "/sessions", nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("POST /sessions: unexpected status %d", resp.StatusCode)
	}
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	return out.SessionID, nil
}

// session fetches one session.
func (c *HTTPClient) session(ctx context.Context, id string) (types.SessionView, error) {
	var view types.SessionView
	err := c.getJSON(ctx, "/sessions/"+id, &view)
	return view, err
}

// submitStrokes submits strokes concurrently using a worker pool.
func submitStrokes(ctx context.Context, config *Config, client *HTTPClient, strokes []strokeRequest, stats *Stats) {
	logger.Get().Info(ctx, "submitting strokes",
		logger.Int("strokes", len(strokes)),
		logger.Int("workers", config.Workers))

	var accepted, duplicate, failed int64

	jobs := make(chan strokeRequest, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				switch submitSingleStroke(ctx, client, st) {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "stroke submission failed", logger.String("stroke_id", st.StrokeID))
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, st := range strokes {
			select {
			case <-ctx.Done():
				return
			case jobs <- st:
			}
		}
	}()

	wg.Wait()

	stats.StrokesAccepted = int(accepted)
	stats.StrokesDuplicate = int(duplicate)
	stats.StrokesFailed = int(failed)
	stats.StrokesSubmitted = int(accepted + duplicate + failed)

	logger.Get().Info(ctx, "stroke submission completed",
		logger.Int("accepted", stats.StrokesAccepted),
		logger.Int("duplicate", stats.StrokesDuplicate),
		logger.Int("failed", stats.StrokesFailed))
}

// submitSingleStroke submits one stroke and returns the outcome.
func submitSingleStroke(ctx context.Context, client *HTTPClient, st strokeRequest) string {
	if st.StrokeID == "" {
		st.StrokeID = uuid.NewString()
	}
	resp, err := client.Post(ctx, "/strokes", st)
	if err != nil {
		return outcomeFailed
	}
	defer func() { _ = resp.Body.Close() }()

	var ack ackResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return outcomeFailed
	}
	return classifyAck(resp.StatusCode, st.StrokeID, ack)
}

// classifyAck maps a stroke acknowledgement to an outcome. The status code and
// the body must agree, and the ack must name the stroke that was sent.
func classifyAck(code int, strokeID string, ack ackResponse) string {
	if ack.StrokeID != strokeID {
		return outcomeFailed
	}
	switch {
	case code == http.StatusAccepted && ack.Status == "accepted" && !ack.Duplicate:
		return outcomeAccepted
	case code == http.StatusOK && ack.Status == "duplicate" && ack.Duplicate:
		return outcomeDuplicate
	default:
		return outcomeFailed
	}
}
