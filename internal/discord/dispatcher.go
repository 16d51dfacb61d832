package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrDelivery is returned on transport-level failures (connection refused,
// timeout, TLS failure). Non-2xx responses are not errors: the numeric
// status is returned to the caller to interpret.
var ErrDelivery = errors.New("discord delivery failed")

// deliverTimeout bounds one webhook POST.
const deliverTimeout = 30 * time.Second

// Dispatcher delivers notification payloads to Discord webhooks. It owns
// one shared HTTP client for the lifetime of the process, created on first
// delivery rather than at startup.
type Dispatcher struct {
	mu     sync.Mutex
	client *http.Client
	closed bool
}

// NewDispatcher creates a dispatcher. The underlying HTTP client is not
// allocated until the first call to Deliver.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// httpClient returns the shared client, creating it on first use.
func (d *Dispatcher) httpClient() (*http.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("%w: dispatcher is closed", ErrDelivery)
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: deliverTimeout}
	}
	return d.client, nil
}

// Deliver POSTs the serialized message to webhookURL and returns the HTTP
// status code. A single best-effort attempt: no retries, no backoff.
func (d *Dispatcher) Deliver(ctx context.Context, webhookURL string, msg Message) (int, error) {
	client, err := d.httpClient()
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, nil
}

// Close releases the shared client if it was ever created. Safe to call
// more than once; only the first call takes effect.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.client != nil {
		d.client.CloseIdleConnections()
	}
}
