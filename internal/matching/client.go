package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sse"

	"github.com/hirely-app/hirely-api/internal/config"
)

// maxStreamBytes caps how much of the event stream is read.
const maxStreamBytes = 10 << 20

var ErrMalformedResponse = errors.New("malformed inference response")

// Prediction is one job suggested by the model.
type Prediction struct {
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Category *string `json:"category"`
	Snippet  *string `json:"snippet"`
	URL      string  `json:"url"`
}

// Client predicts job matches for a major and a space-separated skill list.
type Client interface {
	Predict(ctx context.Context, major, skills string) ([]Prediction, error)
}

// GradioClient calls a Gradio app through its queue API: a POST that returns
// an event id, then a GET that streams server-sent events until the job
// completes or fails.
type GradioClient struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func NewGradioClient(cfg config.InferenceConfig) *GradioClient {
	return &GradioClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + cfg.CallPath + "/" + strings.TrimPrefix(cfg.APIName, "/"),
		token:      cfg.Token,
	}
}

type callRequest struct {
	Data []any `json:"data"`
}

type callResponse struct {
	EventID string `json:"event_id"`
}

type predictOutput struct {
	Results *[]Prediction `json:"results"`
}

func (c *GradioClient) Predict(ctx context.Context, major, skills string) ([]Prediction, error) {
	eventID, err := c.submit(ctx, major, skills)
	if err != nil {
		return nil, err
	}

	events, err := c.stream(ctx, eventID)
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		switch ev.Event {
		case "complete":
			return decodeComplete(ev.Data)
		case "error":
			return nil, fmt.Errorf("inference job failed: %v", ev.Data)
		}
	}

	return nil, fmt.Errorf("%w: stream ended without a complete event", ErrMalformedResponse)
}

func (c *GradioClient) submit(ctx context.Context, major, skills string) (string, error) {
	body, err := json.Marshal(callRequest{Data: []any{major, skills}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxStreamBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var call callResponse
	if err := json.Unmarshal(respBody, &call); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if call.EventID == "" {
		return "", fmt.Errorf("%w: missing event_id", ErrMalformedResponse)
	}

	return call.EventID, nil
}

func (c *GradioClient) stream(ctx context.Context, eventID string) ([]sse.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+eventID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("result request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(body))
	}

	events, err := sse.Decode(io.LimitReader(resp.Body, maxStreamBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode result stream: %w", err)
	}

	return events, nil
}

func (c *GradioClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeComplete parses the data of a complete event, a list of outputs whose
// first element carries the results.
func decodeComplete(data any) ([]Prediction, error) {
	raw, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected event data %T", ErrMalformedResponse, data)
	}

	var outputs []predictOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &outputs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(outputs) == 0 || outputs[0].Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}

	return *outputs[0].Results, nil
}
