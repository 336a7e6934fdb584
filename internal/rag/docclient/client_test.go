package docclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"doc_id":"doc-1","filename":"a.pdf","extracted_text":"the full text"}`))
	}))
	defer server.Close()

	client := New(server.URL, "svc-token", 5*time.Second)

	text, err := client.FetchText(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "the full text", text)
}

func TestFetchText_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error":"document not found"}`))
	}))
	defer server.Close()

	client := New(server.URL, "", 5*time.Second)

	_, err := client.FetchText(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document missing not found")
}

func TestFetchText_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "", 5*time.Second)

	_, err := client.FetchText(context.Background(), "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchText_TransportFailure(t *testing.T) {
	client := New("http://127.0.0.1:1", "", time.Second)

	_, err := client.FetchText(context.Background(), "doc-1")
	assert.Error(t, err)
}
