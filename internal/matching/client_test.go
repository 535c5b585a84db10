package matching

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirely-app/hirely-api/internal/config"
)

const completeData = `[{"results": [{"title": "Backend Engineer", "company": "Acme", "category": "IT", "snippet": "Go and SQL", "url": "https://jobs.example.com/1"}, {"title": "Data Analyst", "company": "Globex", "category": null, "snippet": null, "url": ""}]}]`

// gradioServer fakes the two-step queue API. events is written verbatim as
// the body of the result stream.
func gradioServer(t *testing.T, events string) (*httptest.Server, *[]any) {
	t.Helper()

	var received []any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gradio_api/call/predict", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))

		var body callRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = body.Data

		_, _ = fmt.Fprint(w, `{"event_id": "evt-1"}`)
	})
	mux.HandleFunc("GET /gradio_api/call/predict/evt-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, events)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &received
}

func newTestClient(baseURL string) *GradioClient {
	return NewGradioClient(config.InferenceConfig{
		BaseURL:  baseURL,
		CallPath: "/gradio_api/call",
		APIName:  "predict",
		Token:    "hf-token",
		Timeout:  5 * time.Second,
	})
}

func TestGradioClientPredict(t *testing.T) {
	events := "event: generating\ndata: null\n\n" +
		"event: heartbeat\ndata: null\n\n" +
		"event: complete\ndata: " + completeData + "\n\n"
	srv, received := gradioServer(t, events)

	predictions, err := newTestClient(srv.URL).Predict(t.Context(), "Computer Science", "Go SQL")
	require.NoError(t, err)

	assert.Equal(t, []any{"Computer Science", "Go SQL"}, *received)
	require.Len(t, predictions, 2)
	assert.Equal(t, "Backend Engineer", predictions[0].Title)
	assert.Equal(t, "Acme", predictions[0].Company)
	require.NotNil(t, predictions[0].Category)
	assert.Equal(t, "IT", *predictions[0].Category)
	assert.Equal(t, "https://jobs.example.com/1", predictions[0].URL)
	assert.Nil(t, predictions[1].Category)
	assert.Nil(t, predictions[1].Snippet)
}

func TestGradioClientFailures(t *testing.T) {
	tests := map[string]string{
		"error event":     "event: error\ndata: \"model crashed\"\n\n",
		"missing results": "event: complete\ndata: [{\"other\": 1}]\n\n",
		"empty outputs":   "event: complete\ndata: []\n\n",
		"not json":        "event: complete\ndata: oops\n\n",
		"no complete":     "event: generating\ndata: null\n\n",
		"empty stream":    "",
	}

	for name, events := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := gradioServer(t, events)

			_, err := newTestClient(srv.URL).Predict(t.Context(), "Law", "")
			assert.Error(t, err)
		})
	}
}

func TestGradioClientUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).Predict(t.Context(), "Law", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "日本", truncate("日本語", 2))
}
