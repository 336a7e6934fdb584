package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

type fakeFetcher struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchText(_ context.Context, docID string) (string, error) {
	f.calls = append(f.calls, docID)
	if err, ok := f.errs[docID]; ok {
		return "", err
	}
	text, ok := f.texts[docID]
	if !ok {
		return "", fmt.Errorf("document %s not found", docID)
	}
	return text, nil
}

type fakeSplitter struct {
	chunks map[string][]string
}

func (f *fakeSplitter) Split(text string) []string {
	return f.chunks[text]
}

type fakeEmbedder struct {
	err     error
	batches [][]string
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1.0}
	}
	return out, nil
}

type fakeVectorStore struct {
	upserts   [][]domain.VectorRecord
	deletes   []string
	searchErr error
	upsertErr error
	matches   []domain.Match
	searched  [][]string
}

func (f *fakeVectorStore) Upsert(_ context.Context, records []domain.VectorRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, records)
	return nil
}

func (f *fakeVectorStore) DeleteByDoc(_ context.Context, docID string) error {
	f.deletes = append(f.deletes, docID)
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, _ int, docIDs []string) ([]domain.Match, error) {
	f.searched = append(f.searched, docIDs)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

type fakeGenerator struct {
	err     error
	answer  string
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (domain.Generation, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return domain.Generation{}, f.err
	}
	return domain.Generation{Answer: f.answer, TokensConsumed: 120, TokensGenerated: 40}, nil
}

type fakeEmitter struct {
	err     error
	records []domain.RunRecord
}

func (f *fakeEmitter) Emit(_ context.Context, rec domain.RunRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type orchestratorFixture struct {
	fetcher   *fakeFetcher
	splitter  *fakeSplitter
	embedder  *fakeEmbedder
	vectors   *fakeVectorStore
	generator *fakeGenerator
	emitter   *fakeEmitter
	orch      *Orchestrator
}

func newFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		fetcher:   &fakeFetcher{texts: map[string]string{}, errs: map[string]error{}},
		splitter:  &fakeSplitter{chunks: map[string][]string{}},
		embedder:  &fakeEmbedder{},
		vectors:   &fakeVectorStore{},
		generator: &fakeGenerator{answer: "the answer"},
		emitter:   &fakeEmitter{},
	}
	f.orch = NewOrchestrator(f.fetcher, f.splitter, f.embedder, f.vectors, f.generator, f.emitter, 5)
	return f
}

func TestIndex_SingleDocument(t *testing.T) {
	f := newFixture()
	f.fetcher.texts["docA"] = "full text"
	f.splitter.chunks["full text"] = []string{"chunk one", "chunk two", "chunk three"}

	results, err := f.orch.Index(context.Background(), []string{"docA"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.IndexResult{DocID: "docA", Status: domain.StatusSuccess}, results[0])

	// One batched embedding call for all chunks.
	require.Len(t, f.embedder.batches, 1)
	assert.Equal(t, []string{"chunk one", "chunk two", "chunk three"}, f.embedder.batches[0])

	// One upsert with deterministic per-chunk ids, old vectors dropped first.
	assert.Equal(t, []string{"docA"}, f.vectors.deletes)
	require.Len(t, f.vectors.upserts, 1)
	records := f.vectors.upserts[0]
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("docA_%d", i), rec.ID)
		assert.Equal(t, "docA", rec.DocID)
	}
	assert.Equal(t, "chunk two", records[1].Text)
}

func TestIndex_ReindexOverwrites(t *testing.T) {
	f := newFixture()
	f.fetcher.texts["docA"] = "full text"
	f.splitter.chunks["full text"] = []string{"chunk one", "chunk two"}

	for i := 0; i < 2; i++ {
		_, err := f.orch.Index(context.Background(), []string{"docA"})
		require.NoError(t, err)
	}

	// Each run clears the document's vectors, then writes the same ids again.
	assert.Equal(t, []string{"docA", "docA"}, f.vectors.deletes)
	require.Len(t, f.vectors.upserts, 2)
	assert.Equal(t, f.vectors.upserts[0][0].ID, f.vectors.upserts[1][0].ID)
}

func TestIndex_ResultsInInputOrder(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"c", "a", "b"} {
		f.fetcher.texts[id] = "text " + id
		f.splitter.chunks["text "+id] = []string{"chunk " + id}
	}

	results, err := f.orch.Index(context.Background(), []string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "c", results[0].DocID)
	assert.Equal(t, "a", results[1].DocID)
	assert.Equal(t, "b", results[2].DocID)
}

func TestIndex_FailureIsolation(t *testing.T) {
	f := newFixture()
	f.fetcher.texts["good"] = "good text"
	f.splitter.chunks["good text"] = []string{"good chunk"}
	f.fetcher.errs["bad"] = errors.New("document bad not found")

	results, err := f.orch.Index(context.Background(), []string{"bad", "good"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, domain.StatusFailure, results[0].Status)
	assert.Contains(t, results[0].Reason, "not found")
	assert.Equal(t, domain.StatusSuccess, results[1].Status)
	assert.Empty(t, results[1].Reason)

	// The good document was still indexed.
	require.Len(t, f.vectors.upserts, 1)
}

func TestIndex_EmptyTextClearsVectors(t *testing.T) {
	f := newFixture()
	f.fetcher.texts["empty"] = "   "

	results, err := f.orch.Index(context.Background(), []string{"empty"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, results[0].Status)

	// No embeddings, no upsert, but stale vectors are dropped.
	assert.Empty(t, f.embedder.batches)
	assert.Empty(t, f.vectors.upserts)
	assert.Equal(t, []string{"empty"}, f.vectors.deletes)
}

func TestIndex_ValidationHasNoSideEffects(t *testing.T) {
	f := newFixture()

	_, err := f.orch.Index(context.Background(), []string{"doc-1", "doc-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	assert.Empty(t, f.fetcher.calls)
	assert.Empty(t, f.vectors.deletes)
	assert.Empty(t, f.vectors.upserts)
}

func TestQuery_Success(t *testing.T) {
	f := newFixture()
	f.vectors.matches = []domain.Match{
		{ID: "docA_0", DocID: "docA", Text: "first passage", Score: 0.8},
		{ID: "docA_1", DocID: "docA", Text: "second passage", Score: 0.6},
	}

	result, err := f.orch.Query(context.Background(), []string{"docA"}, "what is this about?")
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "the answer", result.Answer)
	assert.Equal(t, 120, result.TokensConsumed)
	assert.Equal(t, 40, result.TokensGenerated)
	assert.InDelta(t, 0.7, result.ConfidenceScore, 1e-9)
	assert.GreaterOrEqual(t, result.ResponseTimeMs, 0.0)

	// The prompt carries the retrieved passages and the question.
	require.Len(t, f.generator.prompts, 1)
	assert.Contains(t, f.generator.prompts[0], "first passage\nsecond passage")
	assert.Contains(t, f.generator.prompts[0], "what is this about?")

	// Exactly one completed metrics record for the run.
	require.Len(t, f.emitter.records, 1)
	rec := f.emitter.records[0]
	assert.Equal(t, result.RunID, rec.RunID)
	assert.Equal(t, domain.AgentName, rec.AgentName)
	assert.Equal(t, domain.RunCompleted, rec.Status)
	assert.Equal(t, 120, rec.TokensConsumed)
	assert.InDelta(t, 0.7, rec.ConfidenceScore, 1e-9)
}

func TestQuery_NoMatches(t *testing.T) {
	f := newFixture()
	f.vectors.matches = nil

	result, err := f.orch.Query(context.Background(), []string{"docA"}, "anything relevant?")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Equal(t, "the answer", result.Answer)

	// The generator still runs, against an empty context block.
	require.Len(t, f.generator.prompts, 1)
	assert.Contains(t, f.generator.prompts[0], "Context:\n\n")
}

func TestQuery_GeneratorFailure(t *testing.T) {
	f := newFixture()
	f.vectors.matches = []domain.Match{{ID: "docA_0", DocID: "docA", Text: "passage", Score: 0.9}}
	f.generator.err = fmt.Errorf("timeout: %w", domain.ErrLLM)

	_, err := f.orch.Query(context.Background(), []string{"docA"}, "a question")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrUpstream))
	assert.Equal(t, "query processing failed", err.Error())

	// Still exactly one record, marked failed with zeroed usage.
	require.Len(t, f.emitter.records, 1)
	rec := f.emitter.records[0]
	assert.Equal(t, domain.RunFailed, rec.Status)
	assert.Zero(t, rec.TokensConsumed)
	assert.Zero(t, rec.TokensGenerated)
	assert.Zero(t, rec.ConfidenceScore)
	assert.NotEmpty(t, rec.RunID)
}

func TestQuery_SearchFailure(t *testing.T) {
	f := newFixture()
	f.vectors.searchErr = fmt.Errorf("connection refused: %w", domain.ErrVectorIndex)

	_, err := f.orch.Query(context.Background(), []string{"docA"}, "a question")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrUpstream))

	require.Len(t, f.emitter.records, 1)
	assert.Equal(t, domain.RunFailed, f.emitter.records[0].Status)
}

func TestQuery_EmbeddingFailureMapsToUpstream(t *testing.T) {
	f := newFixture()
	f.embedder.err = fmt.Errorf("rate limited: %w", domain.ErrEmbedding)

	_, err := f.orch.Query(context.Background(), []string{"docA"}, "a question")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrUpstream))
}

func TestQuery_EmitterFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.vectors.matches = []domain.Match{{ID: "docA_0", DocID: "docA", Text: "passage", Score: 0.5}}
	f.emitter.err = errors.New("sink unreachable")

	result, err := f.orch.Query(context.Background(), []string{"docA"}, "a question")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Answer)
	require.Len(t, f.emitter.records, 1)
}

func TestQuery_ValidationHasNoSideEffects(t *testing.T) {
	f := newFixture()

	_, err := f.orch.Query(context.Background(), []string{"docA"}, strings.Repeat("q", MaxQuestionLength+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	assert.Empty(t, f.embedder.batches)
	assert.Empty(t, f.vectors.searched)
	assert.Empty(t, f.emitter.records)
}

func TestQuery_SearchScopedToRequestedDocs(t *testing.T) {
	f := newFixture()
	f.vectors.matches = []domain.Match{{ID: "docB_0", DocID: "docB", Text: "passage", Score: 1.0}}

	_, err := f.orch.Query(context.Background(), []string{" docB ", "docC"}, "scoped?")
	require.NoError(t, err)

	require.Len(t, f.vectors.searched, 1)
	assert.Equal(t, []string{"docB", "docC"}, f.vectors.searched[0])
}
