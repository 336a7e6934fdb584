package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
)

func TestValidateDocIDs(t *testing.T) {
	t.Run("accepts and trims ids", func(t *testing.T) {
		ids, verr := validateDocIDs([]string{" doc-1 ", "doc-2"}, MaxIndexDocs)
		require.Nil(t, verr)
		assert.Equal(t, []string{"doc-1", "doc-2"}, ids)
	})

	t.Run("rejects empty list", func(t *testing.T) {
		_, verr := validateDocIDs(nil, MaxIndexDocs)
		require.NotNil(t, verr)
		assert.True(t, errors.Is(verr, httpx.ErrValidation))
		assert.Contains(t, verr.Fields, "document_ids")
	})

	t.Run("rejects over max", func(t *testing.T) {
		ids := make([]string, MaxQueryDocs+1)
		for i := range ids {
			ids[i] = "doc-" + strings.Repeat("x", i+1)
		}
		_, verr := validateDocIDs(ids, MaxQueryDocs)
		require.NotNil(t, verr)
		assert.True(t, errors.Is(verr, httpx.ErrValidation))
	})

	t.Run("rejects blank id", func(t *testing.T) {
		_, verr := validateDocIDs([]string{"doc-1", "   "}, MaxIndexDocs)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields["document_ids"], "non-empty")
	})

	t.Run("rejects duplicates after trimming", func(t *testing.T) {
		_, verr := validateDocIDs([]string{"doc-1", " doc-1"}, MaxIndexDocs)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields["document_ids"], "duplicate")
	})
}

func TestValidateQuestion(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		q, verr := validateQuestion("  what is this?  ")
		require.Nil(t, verr)
		assert.Equal(t, "what is this?", q)
	})

	t.Run("rejects empty question", func(t *testing.T) {
		_, verr := validateQuestion("   ")
		require.NotNil(t, verr)
		assert.True(t, errors.Is(verr, httpx.ErrValidation))
		assert.Contains(t, verr.Fields, "question")
	})

	t.Run("rejects over-length question", func(t *testing.T) {
		_, verr := validateQuestion(strings.Repeat("q", MaxQuestionLength+1))
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields["question"], "exceeds")
	})

	t.Run("accepts question at the limit", func(t *testing.T) {
		q, verr := validateQuestion(strings.Repeat("q", MaxQuestionLength))
		require.Nil(t, verr)
		assert.Len(t, q, MaxQuestionLength)
	})

	t.Run("length bound counts characters, not bytes", func(t *testing.T) {
		// 600 two-byte runes: 1200 bytes, well inside the 1000-character bound.
		q, verr := validateQuestion(strings.Repeat("é", 600))
		require.Nil(t, verr)
		assert.Equal(t, 600, len([]rune(q)))

		_, verr = validateQuestion(strings.Repeat("é", MaxQuestionLength+1))
		require.NotNil(t, verr)
		assert.Contains(t, verr.Fields["question"], "exceeds")
	})
}
