package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/docqa-labs/docqa-backend/internal/documents/domain"
)

// DocumentRepository handles PostgreSQL operations for document metadata
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// EnsureSchema creates the documents table when it does not exist yet.
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			doc_id           TEXT PRIMARY KEY,
			filename         TEXT NOT NULL,
			upload_timestamp TIMESTAMPTZ NOT NULL,
			extracted_text   TEXT NOT NULL DEFAULT '',
			storage_location TEXT NOT NULL DEFAULT '',
			tags             JSONB NOT NULL DEFAULT '{}'
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure documents schema: %w", err)
	}

	return nil
}

// Create inserts a new metadata record. The upload timestamp is assigned here
// when the caller left it zero.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if doc.UploadTimestamp.IsZero() {
		doc.UploadTimestamp = time.Now().UTC()
	}
	if doc.Tags == nil {
		doc.Tags = map[string]string{}
	}

	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		tagsJSON = []byte("{}")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, filename, upload_timestamp, extracted_text, storage_location, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, doc.DocID, doc.Filename, doc.UploadTimestamp, doc.ExtractedText, doc.StorageLocation, tagsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// Get retrieves a document by id
func (r *DocumentRepository) Get(ctx context.Context, docID string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT doc_id, filename, upload_timestamp, extracted_text, storage_location, tags
		FROM documents
		WHERE doc_id = $1
	`, docID)

	return scanDocument(row)
}

// List retrieves documents ordered by upload time, newest first
func (r *DocumentRepository) List(ctx context.Context, offset, limit int) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT doc_id, filename, upload_timestamp, extracted_text, storage_location, tags
		FROM documents
		ORDER BY upload_timestamp DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Update applies tag and/or storage-location changes.
func (r *DocumentRepository) Update(ctx context.Context, docID string, upd domain.DocumentUpdate) error {
	sets := []string{}
	args := []interface{}{}

	if upd.Tags != nil {
		tagsJSON, err := json.Marshal(upd.Tags)
		if err != nil {
			tagsJSON = []byte("{}")
		}
		args = append(args, tagsJSON)
		sets = append(sets, fmt.Sprintf("tags = $%d", len(args)))
	}
	if upd.StorageLocation != nil {
		args = append(args, *upd.StorageLocation)
		sets = append(sets, fmt.Sprintf("storage_location = $%d", len(args)))
	}

	if len(sets) == 0 {
		return domain.ErrNoUpdatableField
	}

	args = append(args, docID)
	query := fmt.Sprintf("UPDATE documents SET %s WHERE doc_id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// Delete removes the metadata record
func (r *DocumentRepository) Delete(ctx context.Context, docID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var tagsJSON []byte

	err := row.Scan(&doc.DocID, &doc.Filename, &doc.UploadTimestamp, &doc.ExtractedText, &doc.StorageLocation, &tagsJSON)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
		doc.Tags = map[string]string{}
	}

	return &doc, nil
}
