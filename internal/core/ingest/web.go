package ingest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mentora-labs/mentora/internal/models"
)

// desktopUserAgent is sent on all outbound page fetches; a handful of sites
// serve empty shells to clients without a browser-like UA.
const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var whitespaceRun = regexp.MustCompile(`\s+`)

// WebExtractor fetches a page and reduces it to its substantive body text:
// script, style and chrome elements are dropped, whitespace runs collapse to
// single spaces.
type WebExtractor struct {
	client *http.Client
}

func NewWebExtractor(timeout time.Duration) *WebExtractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebExtractor{client: &http.Client{Timeout: timeout}}
}

func (e *WebExtractor) Extract(ctx context.Context, src models.SourceDescriptor) (Extraction, error) {
	if src.URL == "" {
		return Extraction{}, ErrMissingURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Extraction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Extraction{}, fmt.Errorf("fetch %s: status %d", src.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Extraction{}, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, nav, footer, header").Remove()
	text := strings.TrimSpace(whitespaceRun.ReplaceAllString(doc.Find("body").Text(), " "))

	// Prefer the page's own title over a URL-as-placeholder.
	title := src.Title
	if title == "" || title == src.URL {
		if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
			title = t
		} else {
			title = src.URL
		}
	}

	return Extraction{Text: text, Title: title}, nil
}
