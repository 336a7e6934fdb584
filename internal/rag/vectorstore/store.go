package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

// Store keeps chunk vectors in Postgres with pgvector, cosine distance.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the chunks table when missing. The vector width is
// fixed at creation time to the embedder's dimension.
func (s *Store) EnsureSchema(ctx context.Context, dimension int) error {
	_, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS rag_chunks (
			id        text PRIMARY KEY,
			doc_id    text NOT NULL,
			content   text NOT NULL,
			embedding vector(%d) NOT NULL
		)
	`, dimension))
	if err != nil {
		return fmt.Errorf("create rag_chunks table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS rag_chunks_doc_id_idx ON rag_chunks (doc_id)`)
	if err != nil {
		return fmt.Errorf("create doc_id index: %w", err)
	}

	return nil
}

// Upsert writes one document's records in a single batch, replacing rows with
// matching ids. Callers delete the document's previous rows first so a
// shrinking chunk count leaves no trailing vectors behind.
func (s *Store) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO rag_chunks (id, doc_id, content, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET doc_id = EXCLUDED.doc_id, content = EXCLUDED.content, embedding = EXCLUDED.embedding
		`, rec.ID, rec.DocID, rec.Text, pgvector.NewVector(rec.Embedding))
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%w: upsert: %v", domain.ErrVectorIndex, err)
		}
	}

	return nil
}

// DeleteByDoc removes every vector belonging to a document.
func (s *Store) DeleteByDoc(ctx context.Context, docID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rag_chunks WHERE doc_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("%w: delete by doc: %v", domain.ErrVectorIndex, err)
	}
	return nil
}

// Search returns the topK nearest chunks restricted to the given documents,
// best match first. Score is cosine similarity in [0,1] for normalized
// embeddings.
func (s *Store) Search(ctx context.Context, vector []float32, topK int, docIDs []string) ([]domain.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, doc_id, content, 1 - (embedding <=> $1) AS score
		FROM rag_chunks
		WHERE doc_id = ANY($2)
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(vector), docIDs, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrVectorIndex, err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.DocID, &m.Text, &m.Score); err != nil {
			return nil, fmt.Errorf("%w: scan match: %v", domain.ErrVectorIndex, err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search rows: %v", domain.ErrVectorIndex, err)
	}

	return matches, nil
}

var _ domain.VectorStore = (*Store)(nil)
