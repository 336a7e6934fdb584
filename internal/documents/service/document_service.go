package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-backend/internal/documents/blob"
	"github.com/docqa-labs/docqa-backend/internal/documents/domain"
	"github.com/docqa-labs/docqa-backend/internal/documents/extract"
)

// Repository is the metadata store surface the service needs.
type Repository interface {
	Create(ctx context.Context, doc *domain.Document) error
	Get(ctx context.Context, docID string) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Document, error)
	Update(ctx context.Context, docID string, upd domain.DocumentUpdate) error
	Delete(ctx context.Context, docID string) error
}

// DocumentService owns the document lifecycle: upload, extraction, metadata
// CRUD and blob cleanup.
type DocumentService struct {
	repo  Repository
	blobs blob.Store
}

func NewDocumentService(repo Repository, blobs blob.Store) *DocumentService {
	return &DocumentService{repo: repo, blobs: blobs}
}

// Upload stores one PDF: extracts its text, writes the raw bytes to the blob
// store and inserts the metadata record.
func (s *DocumentService) Upload(ctx context.Context, filename string, data []byte) (*domain.Document, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, fmt.Errorf("%s is not a PDF", filename)
	}

	text, err := extract.Text(data)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", filename, err)
	}

	docID := uuid.New().String()
	location, err := s.blobs.Put(ctx, docID+".pdf", data)
	if err != nil {
		return nil, fmt.Errorf("store blob for %s: %w", filename, err)
	}

	doc := &domain.Document{
		DocID:           docID,
		Filename:        filename,
		ExtractedText:   text,
		StorageLocation: location,
		Tags:            map[string]string{},
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Create inserts a metadata-only record (no blob, no extraction). Used by the
// gateway's document CRUD surface.
func (s *DocumentService) Create(ctx context.Context, doc *domain.Document) error {
	if doc.DocID == "" {
		doc.DocID = uuid.New().String()
	}
	return s.repo.Create(ctx, doc)
}

func (s *DocumentService) Get(ctx context.Context, docID string) (*domain.Document, error) {
	return s.repo.Get(ctx, docID)
}

func (s *DocumentService) List(ctx context.Context, page, limit int) ([]*domain.Document, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(ctx, (page-1)*limit, limit)
}

func (s *DocumentService) Update(ctx context.Context, docID string, upd domain.DocumentUpdate) error {
	return s.repo.Update(ctx, docID, upd)
}

// Delete removes the metadata record and, when purgeBlob is set, the stored
// PDF. Metadata deletion is authoritative: a failed blob delete is logged and
// the call still succeeds.
func (s *DocumentService) Delete(ctx context.Context, docID string, purgeBlob bool) error {
	doc, err := s.repo.Get(ctx, docID)
	if err != nil {
		return err
	}

	if purgeBlob && doc.StorageLocation != "" {
		if err := s.blobs.Delete(ctx, doc.StorageLocation); err != nil {
			log.Printf("blob delete failed for %s: %v", docID, err)
		}
	}

	return s.repo.Delete(ctx, docID)
}
