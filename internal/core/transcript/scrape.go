package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// consentCookie pre-accepts the EU cookie interstitial so the watch page
	// is served directly instead of a consent redirect.
	consentCookie = "CONSENT=YES+cb.20210328-17-p0.en+FX+678"

	maxWatchPageBytes = 10 << 20
)

var (
	playerStatePattern = regexp.MustCompile(`(?s)ytInitialPlayerResponse\s*=\s*(\{.+?\});`)
	captionTextPattern = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
)

// captionTrack mirrors the fields of the player state's caption track list
// that track selection needs. Kind is "asr" for auto-generated tracks.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// ScrapeStrategy fetches the watch page directly and pulls the caption
// document out of the embedded player state. It is the fallback for
// environments without a python interpreter.
type ScrapeStrategy struct {
	client         *http.Client
	watchBaseURL   string
	pageTimeout    time.Duration
	captionTimeout time.Duration
}

func NewScrapeStrategy(pageTimeout, captionTimeout time.Duration) *ScrapeStrategy {
	if pageTimeout <= 0 {
		pageTimeout = 15 * time.Second
	}
	if captionTimeout <= 0 {
		captionTimeout = 10 * time.Second
	}
	return &ScrapeStrategy{
		client:         &http.Client{},
		watchBaseURL:   "https://www.youtube.com/watch?v=",
		pageTimeout:    pageTimeout,
		captionTimeout: captionTimeout,
	}
}

// WithWatchBaseURL points the scraper at a different page host; used by tests.
func (s *ScrapeStrategy) WithWatchBaseURL(base string) *ScrapeStrategy {
	s.watchBaseURL = base
	return s
}

func (s *ScrapeStrategy) Name() string { return "watch page scrape" }

func (s *ScrapeStrategy) Fetch(ctx context.Context, videoID string) (string, error) {
	html, err := s.fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", err
	}

	tracks, err := extractCaptionTracks(html)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", fmt.Errorf("video has no caption tracks")
	}

	track := selectTrack(tracks)

	xml, err := s.fetchCaptionDocument(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}

	text := captionXMLToText(xml)
	if text == "" {
		return "", fmt.Errorf("caption document contained no text")
	}
	return text, nil
}

func (s *ScrapeStrategy) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.watchBaseURL+videoID, nil)
	if err != nil {
		return "", fmt.Errorf("build watch request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Cookie", consentCookie)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return "", fmt.Errorf("read watch page: %w", err)
	}
	return string(body), nil
}

// extractCaptionTracks locates the embedded player state and returns its
// caption track list. When the marker is missing, the failure is
// disambiguated so operators can tell a consent redirect from bot detection
// from a layout change.
func extractCaptionTracks(html string) ([]captionTrack, error) {
	m := playerStatePattern.FindStringSubmatch(html)
	if m == nil {
		switch {
		case strings.Contains(html, "consent.youtube.com"):
			return nil, fmt.Errorf("served a consent-redirect page (cookie not honored)")
		case strings.Contains(html, "unusual traffic") || strings.Contains(html, "g-recaptcha"):
			return nil, fmt.Errorf("served a bot-detection page")
		default:
			return nil, fmt.Errorf("player state not found in page")
		}
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(m[1]), &pr); err != nil {
		return nil, fmt.Errorf("parse player state: %v", err)
	}
	return pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// selectTrack prefers English manual captions, then English of any kind, then
// any manual track, then whatever is first.
func selectTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind == "" {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t
		}
	}
	for _, t := range tracks {
		if t.Kind == "" {
			return t
		}
	}
	return tracks[0]
}

func (s *ScrapeStrategy) fetchCaptionDocument(ctx context.Context, url string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.captionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build caption request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch caption document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("caption document returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read caption document: %w", err)
	}
	return string(body), nil
}

// captionXMLToText collects all <text> element bodies, unescapes the five
// standard XML entities, and joins the lines with single spaces.
func captionXMLToText(xml string) string {
	matches := captionTextPattern.FindAllStringSubmatch(xml, -1)

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		line := unescapeXML(m[1])
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

func unescapeXML(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return s
}
