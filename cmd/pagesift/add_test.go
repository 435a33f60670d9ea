package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pagesift/pagesift"
	main "github.com/pagesift/pagesift/cmd/pagesift"
	"github.com/pagesift/pagesift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates source successfully", func(t *testing.T) {
		t.Parallel()

		var created *pagesift.ContentSource
		sources := &mock.SourceService{
			CreateSourceFn: func(_ context.Context, source *pagesift.ContentSource) error {
				source.ID = "src-123"
				created = source
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Sources: sources,
		}

		cmd := &main.AddCmd{Name: "acme-blog", URL: "https://example.com/blog", Type: "website"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Added source")
		assert.Contains(t, stdout.String(), "acme-blog")
		assert.Contains(t, stdout.String(), "src-123")
		assert.Empty(t, stderr.String())
		require.NotNil(t, created)
		assert.Equal(t, "acme-blog", created.Name)
		assert.Equal(t, "https://example.com/blog", created.URL)
		assert.Equal(t, pagesift.ContentTypeWebsite, created.ContentType)
		assert.True(t, created.IsActive)
	})

	t.Run("registers inactive source with metadata", func(t *testing.T) {
		t.Parallel()

		var created *pagesift.ContentSource
		sources := &mock.SourceService{
			CreateSourceFn: func(_ context.Context, source *pagesift.ContentSource) error {
				source.ID = "src-123"
				created = source
				return nil
			},
		}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Sources: sources,
		}

		cmd := &main.AddCmd{
			Name:     "acme-handbook",
			URL:      "/srv/docs/handbook.pdf",
			Type:     "document",
			Inactive: true,
			Meta:     []string{"lang=en", "team=marketing"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, pagesift.ContentTypeDocument, created.ContentType)
		assert.False(t, created.IsActive)
		assert.Equal(t, map[string]string{"lang": "en", "team": "marketing"}, created.Metadata)
	})

	t.Run("returns error for malformed metadata pair", func(t *testing.T) {
		t.Parallel()

		createCalled := false
		sources := &mock.SourceService{
			CreateSourceFn: func(_ context.Context, _ *pagesift.ContentSource) error {
				createCalled = true
				return nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Sources: sources,
		}

		cmd := &main.AddCmd{
			Name: "acme-blog",
			URL:  "https://example.com/blog",
			Type: "website",
			Meta: []string{"noequals"},
		}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
		assert.False(t, createCalled, "CreateSource should not be called for bad metadata")
	})

	t.Run("returns error when create fails", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			CreateSourceFn: func(_ context.Context, _ *pagesift.ContentSource) error {
				return pagesift.Errorf(pagesift.ECONFLICT, "source already exists")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Sources: sources,
		}

		cmd := &main.AddCmd{Name: "existing", URL: "https://example.com", Type: "website"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
