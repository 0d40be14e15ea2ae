// Package forward ships observed events to an external HTTP endpoint. It
// backs the SDK's webhook hook: an observer that mirrors every event it
// sees to a collector outside the process.
package forward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

// Payload is the JSON body posted per event.
type Payload struct {
	Timestamp string   `json:"ts"`
	Event     string   `json:"event"`
	Args      []string `json:"args"`
}

// Sink posts event payloads to a webhook endpoint.
type Sink struct {
	URL     string
	Headers map[string]string

	client *http.Client
}

// NewSink creates a sink for the given endpoint.
func NewSink(url string) *Sink {
	return &Sink{
		URL:    url,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Send posts one payload, retrying on 5xx with linear backoff.
func (s *Sink) Send(p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("forward: marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("forward: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range s.Headers {
			req.Header.Set(k, v)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("forward: webhook rejected: HTTP %d", resp.StatusCode)
		}
		// 5xx, retry
		lastErr = fmt.Errorf("forward: webhook server error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("forward: webhook failed after %d attempts: %w", maxRetries, lastErr)
}
