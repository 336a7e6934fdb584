package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
)

const (
	MaxIndexDocs      = 100
	MaxQueryDocs      = 50
	MaxQuestionLength = 1000
)

// validateDocIDs enforces the shared id-list constraints: bounded length,
// non-empty trimmed ids, no duplicates.
func validateDocIDs(ids []string, max int) ([]string, *httpx.Error) {
	if len(ids) == 0 {
		return nil, httpx.ValidationFields("invalid request", map[string]string{
			"document_ids": "at least one document id is required",
		})
	}
	if len(ids) > max {
		return nil, httpx.ValidationFields("invalid request", map[string]string{
			"document_ids": fmt.Sprintf("at most %d document ids allowed, got %d", max, len(ids)),
		})
	}

	seen := make(map[string]struct{}, len(ids))
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return nil, httpx.ValidationFields("invalid request", map[string]string{
				"document_ids": "document ids must be non-empty",
			})
		}
		if _, dup := seen[trimmed]; dup {
			return nil, httpx.ValidationFields("invalid request", map[string]string{
				"document_ids": "duplicate document id: " + trimmed,
			})
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}

	return cleaned, nil
}

// validateQuestion trims the question and enforces its length bounds.
func validateQuestion(question string) (string, *httpx.Error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", httpx.ValidationFields("invalid request", map[string]string{
			"question": "question must not be empty",
		})
	}
	if utf8.RuneCountInString(trimmed) > MaxQuestionLength {
		return "", httpx.ValidationFields("invalid request", map[string]string{
			"question": fmt.Sprintf("question exceeds %d characters", MaxQuestionLength),
		})
	}
	return trimmed, nil
}
