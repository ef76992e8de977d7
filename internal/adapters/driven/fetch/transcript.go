package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Ensure TranscriptFetcher implements the interface.
var _ driven.TranscriptFetcher = (*TranscriptFetcher)(nil)

// Default configuration values.
const (
	DefaultTranscriptBaseURL = "https://video.google.com/timedtext"
	DefaultTranscriptTimeout = 30 * time.Second
	DefaultTranscriptLang    = "en"
)

// TranscriptFetcher retrieves video transcripts from YouTube's
// timedtext caption endpoint.
type TranscriptFetcher struct {
	client  *http.Client
	baseURL string
	lang    string
}

// TranscriptOption configures the fetcher.
type TranscriptOption func(*TranscriptFetcher)

// WithTranscriptBaseURL overrides the caption endpoint. Used in tests.
func WithTranscriptBaseURL(baseURL string) TranscriptOption {
	return func(f *TranscriptFetcher) {
		f.baseURL = baseURL
	}
}

// WithTranscriptLang sets the caption language (default: en).
func WithTranscriptLang(lang string) TranscriptOption {
	return func(f *TranscriptFetcher) {
		if lang != "" {
			f.lang = lang
		}
	}
}

// NewTranscriptFetcher creates a transcript fetcher.
func NewTranscriptFetcher(opts ...TranscriptOption) *TranscriptFetcher {
	f := &TranscriptFetcher{
		client:  &http.Client{Timeout: DefaultTranscriptTimeout},
		baseURL: DefaultTranscriptBaseURL,
		lang:    DefaultTranscriptLang,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// timedText is the caption XML document shape.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Content string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript returns the full transcript text for a video ID.
// An empty caption document means the video has no captions or the
// platform declined to serve them; both surface as
// domain.ErrUpstreamBlocked.
func (f *TranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", f.baseURL, url.QueryEscape(f.lang), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching captions for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: caption endpoint returned status %d for %s",
			domain.ErrUpstreamBlocked, resp.StatusCode, videoID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading captions for %s: %w", videoID, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("%w: no captions available for %s", domain.ErrUpstreamBlocked, videoID)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decoding captions for %s: %w", videoID, err)
	}

	var parts []string
	for _, t := range doc.Texts {
		// Caption payloads are HTML-escaped inside the XML.
		line := strings.Join(strings.Fields(html.UnescapeString(t.Content)), " ")
		if line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty caption document for %s", domain.ErrUpstreamBlocked, videoID)
	}

	return strings.Join(parts, " "), nil
}
