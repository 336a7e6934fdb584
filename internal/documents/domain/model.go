package domain

import (
	"errors"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoUpdatableField = errors.New("no updatable fields provided")
)

// Document is the metadata record for one uploaded PDF. The record is
// read-only after creation except for tag and storage-location updates.
type Document struct {
	DocID           string            `json:"doc_id"`
	Filename        string            `json:"filename"`
	UploadTimestamp time.Time         `json:"upload_timestamp"`
	ExtractedText   string            `json:"extracted_text"`
	StorageLocation string            `json:"storage_location"`
	Tags            map[string]string `json:"tags"`
}

// DocumentUpdate carries the mutable fields. Nil means "leave unchanged".
type DocumentUpdate struct {
	Tags            map[string]string
	StorageLocation *string
}
