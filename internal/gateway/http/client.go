package http

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Client forwards requests to the internal services, attaching the shared
// service credential. Index-triggering calls get the shorter timeout, query
// calls the longer one.
type Client struct {
	docBaseURL    string
	ragBaseURL    string
	serviceToken  string
	defaultClient *http.Client
	queryClient   *http.Client
}

func NewClient(docBaseURL, ragBaseURL, serviceToken string, indexTimeout, queryTimeout time.Duration) *Client {
	if indexTimeout == 0 {
		indexTimeout = 30 * time.Second
	}
	if queryTimeout == 0 {
		queryTimeout = 60 * time.Second
	}
	return &Client{
		docBaseURL:    docBaseURL,
		ragBaseURL:    ragBaseURL,
		serviceToken:  serviceToken,
		defaultClient: &http.Client{Timeout: indexTimeout},
		queryClient:   &http.Client{Timeout: queryTimeout},
	}
}

// DocRequest forwards a request to the document service.
func (c *Client) DocRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, c.defaultClient, method, c.docBaseURL+path, body)
}

// RAGIndex forwards an index trigger to the RAG service.
func (c *Client) RAGIndex(ctx context.Context, body io.Reader) (*http.Response, error) {
	return c.do(ctx, c.defaultClient, http.MethodPost, c.ragBaseURL+"/rag/index", body)
}

// RAGQuery forwards a query to the RAG service.
func (c *Client) RAGQuery(ctx context.Context, body io.Reader) (*http.Response, error) {
	return c.do(ctx, c.queryClient, http.MethodPost, c.ragBaseURL+"/rag/query", body)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	return client.Do(req)
}
