package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTrackPreference(t *testing.T) {
	tests := []struct {
		name   string
		tracks []captionTrack
		want   string
	}{
		{
			name: "plain english beats auto-generated english",
			tracks: []captionTrack{
				{LanguageCode: "fr", BaseURL: "fr"},
				{LanguageCode: "en", Kind: "asr", BaseURL: "en-asr"},
				{LanguageCode: "en", BaseURL: "en"},
			},
			want: "en",
		},
		{
			name: "auto-generated english beats other languages",
			tracks: []captionTrack{
				{LanguageCode: "fr", BaseURL: "fr"},
				{LanguageCode: "en", Kind: "asr", BaseURL: "en-asr"},
			},
			want: "en-asr",
		},
		{
			name: "any manual track beats auto-generated foreign",
			tracks: []captionTrack{
				{LanguageCode: "de", Kind: "asr", BaseURL: "de-asr"},
				{LanguageCode: "fr", BaseURL: "fr"},
			},
			want: "fr",
		},
		{
			name: "first available as last resort",
			tracks: []captionTrack{
				{LanguageCode: "de", Kind: "asr", BaseURL: "de-asr"},
				{LanguageCode: "ja", Kind: "asr", BaseURL: "ja-asr"},
			},
			want: "de-asr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectTrack(tt.tracks).BaseURL)
		})
	}
}

func TestCaptionXMLToText(t *testing.T) {
	xml := `<?xml version="1.0"?><transcript>` +
		`<text start="0.0" dur="1.2">Tom &amp; Jerry</text>` +
		`<text start="1.2" dur="2.0">said &quot;hi&quot;</text>` +
		`<text start="3.2" dur="1.0">it&#39;s &lt;great&gt;</text>` +
		`</transcript>`

	got := captionXMLToText(xml)
	assert.Equal(t, `Tom & Jerry said "hi" it's <great>`, got)
}

func TestCaptionXMLToTextEmpty(t *testing.T) {
	assert.Empty(t, captionXMLToText(`<transcript></transcript>`))
}

func TestExtractCaptionTracksDisambiguatesFailures(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"consent redirect", `<html><a href="https://consent.youtube.com/m?continue=x">continue</a></html>`, "consent-redirect"},
		{"bot detection", `<html>Our systems have detected unusual traffic from your network.</html>`, "bot-detection"},
		{"layout change", `<html><body>nothing to see</body></html>`, "player state not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractCaptionTracks(tt.html)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExtractCaptionTracksNoTracks(t *testing.T) {
	html := `<script>var ytInitialPlayerResponse = {"captions":{}};</script>`
	tracks, err := extractCaptionTracks(html)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestScrapeFetchEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/captions", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<transcript><text start="0" dur="1">hello</text><text start="1" dur="1">world &amp; friends</text></transcript>`)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, scrapeUserAgent, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Cookie"), "CONSENT=YES")

		player := fmt.Sprintf(`{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
			`{"baseUrl":"%s/captions","languageCode":"en"}]}}}`, srv.URL)
		fmt.Fprintf(w, `<html><script>var ytInitialPlayerResponse = %s;</script></html>`, player)
	})

	s := NewScrapeStrategy(0, 0).WithWatchBaseURL(srv.URL + "/watch?v=")

	text, err := s.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "hello world & friends", text)
}

func TestScrapeFetchNoCaptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><script>var ytInitialPlayerResponse = {"captions":{}};</script></html>`)
	}))
	defer srv.Close()

	s := NewScrapeStrategy(0, 0).WithWatchBaseURL(srv.URL + "/watch?v=")

	_, err := s.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no caption tracks")
}
