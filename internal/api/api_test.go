package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/red-maple-labs/proxherald/internal/discord"
	"github.com/red-maple-labs/proxherald/internal/logstore"
)

const testWebhook = "https://discord.com/api/webhooks/123/token"

// fakeDeliverer satisfies notify.Deliverer without network access.
type fakeDeliverer struct {
	status int
}

func (f *fakeDeliverer) Deliver(ctx context.Context, webhookURL string, msg discord.Message) (int, error) {
	return f.status, nil
}

func newTestServer(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("logstore.New() error: %v", err)
	}
	if cfg == nil {
		cfg = &Config{DefaultWebhook: testWebhook}
	}
	srv, err := New(cfg, store, &fakeDeliverer{status: http.StatusNoContent})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestNotifyThenFetchRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/api/notify", "application/json",
		strings.NewReader(`{"message": "alert body", "severity": "critical"}`))
	if err != nil {
		t.Fatalf("POST /api/notify: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /api/notify status = %d: %s", resp.StatusCode, body)
	}

	var notifyResp struct {
		Data struct {
			RetrievalURL   string `json:"retrieval_url"`
			DeliveryStatus int    `json:"delivery_status"`
			Delivered      bool   `json:"delivered"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&notifyResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if notifyResp.Data.RetrievalURL == "" {
		t.Fatal("retrieval_url missing")
	}
	if notifyResp.Data.DeliveryStatus != http.StatusNoContent {
		t.Errorf("delivery_status = %d, want 204", notifyResp.Data.DeliveryStatus)
	}
	if !notifyResp.Data.Delivered {
		t.Error("delivered = false, want true")
	}

	// The retrieval URL is derived from the inbound request's own host,
	// so it points back at the test server.
	logResp, err := http.Get(notifyResp.Data.RetrievalURL)
	if err != nil {
		t.Fatalf("GET %s: %v", notifyResp.Data.RetrievalURL, err)
	}
	defer logResp.Body.Close()
	if logResp.StatusCode != http.StatusOK {
		t.Fatalf("GET retrieval_url status = %d", logResp.StatusCode)
	}
	text, _ := io.ReadAll(logResp.Body)
	if string(text) != "alert body" {
		t.Errorf("retrieved log = %q, want %q", text, "alert body")
	}
}

func TestFetchUnknownLog(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/logs/not-a-real-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNotifyWithoutAnyWebhook(t *testing.T) {
	ts := newTestServer(t, &Config{})

	resp, err := http.Post(ts.URL+"/api/notify", "application/json",
		strings.NewReader(`{"message": "x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNotifyRateLimited(t *testing.T) {
	ts := newTestServer(t, &Config{DefaultWebhook: testWebhook, RateLimitPerIP: 2})

	statuses := make([]int, 0, 3)
	for n := 0; n < 3; n++ {
		resp, err := http.Post(ts.URL+"/api/notify", "application/json",
			strings.NewReader(`{"message": "x"}`))
		if err != nil {
			t.Fatal(err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestHealthAndDocs(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/health", "/docs", "/api/openapi.json"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	store, err := logstore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(nil, store, &fakeDeliverer{}); err == nil {
		t.Error("New(nil config) = nil error")
	}
	if _, err := New(&Config{}, nil, &fakeDeliverer{}); err == nil {
		t.Error("New(nil store) = nil error")
	}
	if _, err := New(&Config{}, store, nil); err == nil {
		t.Error("New(nil deliverer) = nil error")
	}
}
