package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
	"github.com/docqa-labs/docqa-backend/internal/rag/service"
)

type stubFetcher struct{ texts map[string]string }

func (s stubFetcher) FetchText(_ context.Context, docID string) (string, error) {
	return s.texts[docID], nil
}

type stubSplitter struct{}

func (stubSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubVectorStore struct{ matches []domain.Match }

func (stubVectorStore) Upsert(context.Context, []domain.VectorRecord) error { return nil }
func (stubVectorStore) DeleteByDoc(context.Context, string) error           { return nil }
func (s stubVectorStore) Search(context.Context, []float32, int, []string) ([]domain.Match, error) {
	return s.matches, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string) (domain.Generation, error) {
	return domain.Generation{Answer: "stub answer", TokensConsumed: 10, TokensGenerated: 5}, nil
}

type stubEmitter struct{}

func (stubEmitter) Emit(context.Context, domain.RunRecord) error { return nil }

func setupRAGRouter(matches []domain.Match, texts map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	orch := service.NewOrchestrator(
		stubFetcher{texts: texts},
		stubSplitter{},
		stubEmbedder{},
		stubVectorStore{matches: matches},
		stubGenerator{},
		stubEmitter{},
		5,
	)
	r := gin.New()
	NewHandler(orch).Register(r)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexEndpoint(t *testing.T) {
	r := setupRAGRouter(nil, map[string]string{"doc-1": "some text"})

	w := postJSON(r, "/rag/index", `{"document_ids":["doc-1"]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []domain.IndexResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "doc-1", resp.Results[0].DocID)
	assert.Equal(t, domain.StatusSuccess, resp.Results[0].Status)
}

func TestIndexEndpoint_ValidationFailure(t *testing.T) {
	r := setupRAGRouter(nil, nil)

	w := postJSON(r, "/rag/index", `{"document_ids":[]}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		OK     bool              `json:"ok"`
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Fields, "document_ids")
}

func TestIndexEndpoint_MalformedBody(t *testing.T) {
	r := setupRAGRouter(nil, nil)

	w := postJSON(r, "/rag/index", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryEndpoint(t *testing.T) {
	matches := []domain.Match{
		{ID: "doc-1_0", DocID: "doc-1", Text: "passage", Score: 0.9},
		{ID: "doc-1_1", DocID: "doc-1", Text: "another", Score: 0.5},
	}
	r := setupRAGRouter(matches, nil)

	w := postJSON(r, "/rag/query", `{"document_ids":["doc-1"],"question":"what?"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "stub answer", resp.Answer)
	assert.InDelta(t, 0.7, resp.ConfidenceScore, 1e-9)
}

func TestQueryEndpoint_ValidationFailure(t *testing.T) {
	r := setupRAGRouter(nil, nil)

	w := postJSON(r, "/rag/query", `{"document_ids":["doc-1"],"question":"   "}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "question")
}
