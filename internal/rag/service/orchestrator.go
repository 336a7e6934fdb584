package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

const promptTemplate = "Based on the following context, please answer the question.\n\nContext:\n%s\n\nQuestion:\n%s\n\nAnswer:"

// Orchestrator composes the chunker, embedder, vector index, document
// service and generative model into the index and query workflows. All
// collaborators are injected so tests can substitute fakes.
type Orchestrator struct {
	fetcher   domain.TextFetcher
	splitter  domain.Splitter
	embedder  domain.Embedder
	vectors   domain.VectorStore
	generator domain.Generator
	metrics   domain.MetricsEmitter
	topK      int
}

func NewOrchestrator(
	fetcher domain.TextFetcher,
	splitter domain.Splitter,
	embedder domain.Embedder,
	vectors domain.VectorStore,
	generator domain.Generator,
	metrics domain.MetricsEmitter,
	topK int,
) *Orchestrator {
	if topK <= 0 {
		topK = 5
	}
	return &Orchestrator{
		fetcher:   fetcher,
		splitter:  splitter,
		embedder:  embedder,
		vectors:   vectors,
		generator: generator,
		metrics:   metrics,
		topK:      topK,
	}
}

// Index processes each document independently, in input order. A document's
// failure is recorded as data and never aborts the batch; only a malformed
// request fails the whole call.
func (o *Orchestrator) Index(ctx context.Context, docIDs []string) ([]domain.IndexResult, error) {
	ids, verr := validateDocIDs(docIDs, MaxIndexDocs)
	if verr != nil {
		return nil, verr
	}

	results := make([]domain.IndexResult, 0, len(ids))
	for _, docID := range ids {
		if err := o.indexOne(ctx, docID); err != nil {
			results = append(results, domain.IndexResult{
				DocID:  docID,
				Status: domain.StatusFailure,
				Reason: err.Error(),
			})
			continue
		}
		results = append(results, domain.IndexResult{DocID: docID, Status: domain.StatusSuccess})
	}

	return results, nil
}

func (o *Orchestrator) indexOne(ctx context.Context, docID string) error {
	text, err := o.fetcher.FetchText(ctx, docID)
	if err != nil {
		return err
	}

	chunks := o.splitter.Split(text)
	if len(chunks) == 0 {
		// Nothing to embed; clear any stale vectors from a previous version.
		return o.vectors.DeleteByDoc(ctx, docID)
	}

	embeddings, err := o.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.VectorRecord{
			ID:        fmt.Sprintf("%s_%d", docID, i),
			Embedding: embeddings[i],
			DocID:     docID,
			Text:      chunk,
		}
	}

	// Drop the document's previous vectors first so a smaller chunk count
	// cannot leave trailing entries from an earlier, longer version.
	if err := o.vectors.DeleteByDoc(ctx, docID); err != nil {
		return err
	}

	return o.vectors.Upsert(ctx, records)
}

// Query runs the full retrieval pipeline and emits exactly one metrics record
// per invocation, completed or failed. Metrics emission failure never affects
// the caller-visible result.
func (o *Orchestrator) Query(ctx context.Context, docIDs []string, question string) (domain.QueryResult, error) {
	ids, verr := validateDocIDs(docIDs, MaxQueryDocs)
	if verr != nil {
		return domain.QueryResult{}, verr
	}
	q, verr := validateQuestion(question)
	if verr != nil {
		return domain.QueryResult{}, verr
	}

	start := time.Now()
	runID := uuid.New().String()

	result, err := o.runQuery(ctx, runID, ids, q, start)
	if err != nil {
		o.emit(ctx, domain.RunRecord{
			RunID:          runID,
			AgentName:      domain.AgentName,
			ResponseTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Status:         domain.RunFailed,
		})
		log.Printf("[rag] query run_id=%s failed: %v", runID, err)

		if errors.Is(err, domain.ErrEmbedding) || errors.Is(err, domain.ErrVectorIndex) || errors.Is(err, domain.ErrLLM) {
			return domain.QueryResult{}, httpx.Upstream("query processing failed")
		}
		return domain.QueryResult{}, httpx.Internal("query processing failed")
	}

	return result, nil
}

func (o *Orchestrator) runQuery(ctx context.Context, runID string, ids []string, question string, start time.Time) (domain.QueryResult, error) {
	embeddings, err := o.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return domain.QueryResult{}, err
	}

	matches, err := o.vectors.Search(ctx, embeddings[0], o.topK, ids)
	if err != nil {
		return domain.QueryResult{}, err
	}

	contextText := joinMatchTexts(matches)
	prompt := fmt.Sprintf(promptTemplate, contextText, question)

	gen, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.QueryResult{}, err
	}

	confidence := meanScore(matches)
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0

	o.emit(ctx, domain.RunRecord{
		RunID:           runID,
		AgentName:       domain.AgentName,
		TokensConsumed:  gen.TokensConsumed,
		TokensGenerated: gen.TokensGenerated,
		ResponseTimeMs:  elapsedMs,
		ConfidenceScore: confidence,
		Status:          domain.RunCompleted,
	})

	return domain.QueryResult{
		RunID:           runID,
		Answer:          gen.Answer,
		TokensConsumed:  gen.TokensConsumed,
		TokensGenerated: gen.TokensGenerated,
		ResponseTimeMs:  elapsedMs,
		ConfidenceScore: confidence,
	}, nil
}

// emit records the run; failures are logged and swallowed.
func (o *Orchestrator) emit(ctx context.Context, rec domain.RunRecord) {
	if err := o.metrics.Emit(ctx, rec); err != nil {
		log.Printf("[rag] metrics emission failed for run_id=%s: %v", rec.RunID, err)
	}
}

func joinMatchTexts(matches []domain.Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, "\n")
}

// meanScore is the arithmetic mean of the match scores, 0.0 when there are no
// matches.
func meanScore(matches []domain.Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}

	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	return sum / float64(len(matches))
}
