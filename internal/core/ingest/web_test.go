package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-labs/mentora/internal/models"
)

func TestWebExtractStripsChrome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, desktopUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><head><title>T</title></head><body><script>x</script><p>Hello World</p></body></html>`)
	}))
	defer srv.Close()

	e := NewWebExtractor(time.Second)

	out, err := e.Extract(context.Background(), models.SourceDescriptor{
		SourceType: models.SourceWeb,
		URL:        srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", out.Text)
	assert.Equal(t, "T", out.Title)
}

func TestWebExtractCollapsesWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body><nav>menu</nav><p>one\n\n  two</p><footer>legal</footer></body></html>")
	}))
	defer srv.Close()

	e := NewWebExtractor(time.Second)

	out, err := e.Extract(context.Background(), models.SourceDescriptor{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "one two", out.Text)
}

func TestWebExtractTitleHandling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Page Title</title></head><body>body</body></html>`)
	}))
	defer srv.Close()

	e := NewWebExtractor(time.Second)

	// A caller-provided title wins.
	out, err := e.Extract(context.Background(), models.SourceDescriptor{URL: srv.URL, Title: "Mine"})
	require.NoError(t, err)
	assert.Equal(t, "Mine", out.Title)

	// A URL passed as the title is a placeholder and gets replaced.
	out, err = e.Extract(context.Background(), models.SourceDescriptor{URL: srv.URL, Title: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "Page Title", out.Title)
}

func TestWebExtractTitleFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>untitled</body></html>`)
	}))
	defer srv.Close()

	e := NewWebExtractor(time.Second)

	out, err := e.Extract(context.Background(), models.SourceDescriptor{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, srv.URL, out.Title)
}

func TestWebExtractNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewWebExtractor(time.Second)

	_, err := e.Extract(context.Background(), models.SourceDescriptor{URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestWebExtractMissingURL(t *testing.T) {
	e := NewWebExtractor(time.Second)

	_, err := e.Extract(context.Background(), models.SourceDescriptor{})
	assert.ErrorIs(t, err, ErrMissingURL)
}
