package bluemonday_test

import (
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/bluemonday"
	"github.com/pagesift/pagesift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizingConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("strips script elements and event handlers", func(t *testing.T) {
		t.Parallel()

		var got string
		next := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				got = html
				return html, nil
			},
		}

		conv := bluemonday.NewSanitizingConverter(next)
		_, err := conv.Convert(`<p onclick="steal()">Hello</p><script>alert(1)</script>`)

		require.NoError(t, err)
		assert.Contains(t, got, "Hello")
		assert.NotContains(t, got, "onclick")
		assert.NotContains(t, got, "script")
	})

	t.Run("keeps formatting elements", func(t *testing.T) {
		t.Parallel()

		var got string
		next := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				got = html
				return html, nil
			},
		}

		conv := bluemonday.NewSanitizingConverter(next)
		_, err := conv.Convert(`<h1>Title</h1><p><strong>Bold</strong> and <a href="https://example.com" rel="nofollow">a link</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, got, "<h1>Title</h1>")
		assert.Contains(t, got, "<strong>Bold</strong>")
		assert.Contains(t, got, `href="https://example.com"`)
	})

	t.Run("propagates converter errors", func(t *testing.T) {
		t.Parallel()

		next := &mock.Converter{
			ConvertFn: func(string) (string, error) {
				return "", pagesift.Errorf(pagesift.EINVALID, "empty HTML input")
			},
		}

		conv := bluemonday.NewSanitizingConverter(next)
		_, err := conv.Convert("<script>only scripts</script>")

		require.Error(t, err)
		assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
	})
}
