package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Responder delivers the terminal response to the orchestration layer's
// response channel.
type Responder interface {
	Respond(ctx context.Context, event Event, resp Response) error
}

// HTTPResponder delivers responses by PUTting the JSON body to the
// event's presigned ResponseURL.
type HTTPResponder struct {
	client *http.Client
}

// NewHTTPResponder creates an HTTPResponder with a bounded-timeout
// client.
func NewHTTPResponder() *HTTPResponder {
	return &HTTPResponder{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Respond uploads the response. The presigned URL is signed over an
// empty content type, so none is set.
func (r *HTTPResponder) Respond(ctx context.Context, event Event, resp Response) error {
	if event.ResponseURL == "" {
		return fmt.Errorf("event %s has no response URL", event.RequestID)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, event.ResponseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build response request: %w", err)
	}
	req.ContentLength = int64(len(body))

	httpResp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver response: %w", err)
	}
	defer httpResp.Body.Close()
	_, _ = io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("response channel returned status %d", httpResp.StatusCode)
	}
	return nil
}
