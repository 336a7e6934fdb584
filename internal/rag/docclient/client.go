package docclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

// Client fetches extracted document text from the document service over HTTP.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func New(baseURL, serviceToken string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// FetchText returns the extracted text for one document id.
func (c *Client) FetchText(ctx context.Context, docID string) (string, error) {
	reqURL := c.baseURL + "/documents/" + docID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("document service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("document %s not found", docID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("document service returned status %d", resp.StatusCode)
	}

	var body struct {
		ExtractedText string `json:"extracted_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode document response: %w", err)
	}

	return body.ExtractedText, nil
}

var _ domain.TextFetcher = (*Client)(nil)
