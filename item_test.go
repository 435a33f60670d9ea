package pagesift_test

import (
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentItem_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid item", func(t *testing.T) {
		t.Parallel()

		item := &pagesift.ContentItem{
			SourceID:         "src-1",
			URL:              "https://example.com/post",
			Title:            "A Post",
			ExtractedText:    "Body text.",
			ContentHash:      "deadbeef",
			ExtractionMethod: pagesift.MethodStatic,
			Status:           pagesift.StatusOK,
		}
		require.NoError(t, item.Validate())
	})

	t.Run("missing source ID", func(t *testing.T) {
		t.Parallel()

		item := &pagesift.ContentItem{
			ExtractedText: "text",
			ContentHash:   "deadbeef",
		}
		err := item.Validate()
		require.Error(t, err)
		assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
	})

	t.Run("missing extracted text", func(t *testing.T) {
		t.Parallel()

		item := &pagesift.ContentItem{
			SourceID:    "src-1",
			ContentHash: "deadbeef",
		}
		err := item.Validate()
		require.Error(t, err)
		assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
	})

	t.Run("missing content hash", func(t *testing.T) {
		t.Parallel()

		item := &pagesift.ContentItem{
			SourceID:      "src-1",
			ExtractedText: "text",
		}
		err := item.Validate()
		require.Error(t, err)
	})
}

func TestExtractResult_Empty(t *testing.T) {
	t.Parallel()

	t.Run("nil result is empty", func(t *testing.T) {
		t.Parallel()

		var r *pagesift.ExtractResult
		assert.True(t, r.Empty())
	})

	t.Run("whitespace-only text is empty", func(t *testing.T) {
		t.Parallel()

		r := &pagesift.ExtractResult{Text: " \n\t "}
		assert.True(t, r.Empty())
	})

	t.Run("text present is not empty", func(t *testing.T) {
		t.Parallel()

		r := &pagesift.ExtractResult{Text: "hello"}
		assert.False(t, r.Empty())
	})
}
