package metricsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

// Client posts run records to the metrics sink. Callers treat emission as
// best-effort; failures are returned for logging, never surfaced to users.
type Client struct {
	url          string
	serviceToken string
	httpClient   *http.Client
}

func New(url, serviceToken string) *Client {
	return &Client{
		url:          url,
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Emit(ctx context.Context, rec domain.RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal metrics payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metrics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("metrics sink returned status %d", resp.StatusCode)
	}

	return nil
}

var _ domain.MetricsEmitter = (*Client)(nil)
