package domain

import (
	"context"
	"errors"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	RunCompleted = "completed"
	RunFailed    = "failed"

	// AgentName tags every metrics record emitted by the query pipeline.
	AgentName = "RAGQueryAgent"
)

var (
	ErrEmbedding   = errors.New("embedding generation failed")
	ErrVectorIndex = errors.New("vector index operation failed")
	ErrLLM         = errors.New("llm service error")
)

// VectorRecord is one chunk's entry in the vector index. The ID is
// deterministic: "<doc_id>_<sequence_index>".
type VectorRecord struct {
	ID        string
	Embedding []float32
	DocID     string
	Text      string
}

// Match is one nearest-neighbor hit with its similarity score.
type Match struct {
	ID    string
	DocID string
	Text  string
	Score float64
}

// IndexResult reports the outcome for one document of an index call.
type IndexResult struct {
	DocID  string `json:"doc_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// QueryResult is the answer plus the usage numbers recorded for the run.
type QueryResult struct {
	RunID           string  `json:"run_id"`
	Answer          string  `json:"answer"`
	TokensConsumed  int     `json:"tokens_consumed"`
	TokensGenerated int     `json:"tokens_generated"`
	ResponseTimeMs  float64 `json:"response_time_ms"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Generation is what the generative model returns for one prompt.
type Generation struct {
	Answer          string
	TokensConsumed  int
	TokensGenerated int
}

// RunRecord is the metrics payload emitted once per query invocation.
type RunRecord struct {
	RunID           string  `json:"run_id"`
	AgentName       string  `json:"agent_name"`
	TokensConsumed  int     `json:"tokens_consumed"`
	TokensGenerated int     `json:"tokens_generated"`
	ResponseTimeMs  float64 `json:"response_time_ms"`
	ConfidenceScore float64 `json:"confidence_score"`
	Status          string  `json:"status"`
}

// Embedder maps texts to fixed-dimension vectors, one call per batch.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore holds (id, vector, payload) triples.
type VectorStore interface {
	Upsert(ctx context.Context, records []VectorRecord) error
	DeleteByDoc(ctx context.Context, docID string) error
	Search(ctx context.Context, vector []float32, topK int, docIDs []string) ([]Match, error)
}

// TextFetcher retrieves a document's extracted text from the document
// service. Kept as a network boundary so the two services stay independently
// deployable.
type TextFetcher interface {
	FetchText(ctx context.Context, docID string) (string, error)
}

// Generator invokes the hosted language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// MetricsEmitter appends one run record to the metrics sink.
type MetricsEmitter interface {
	Emit(ctx context.Context, rec RunRecord) error
}

// Splitter produces a document's chunk texts.
type Splitter interface {
	Split(text string) []string
}
