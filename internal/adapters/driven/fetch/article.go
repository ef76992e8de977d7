// Package fetch provides HTTP-backed content fetchers: readable text
// from web articles and transcripts from YouTube's caption endpoint.
package fetch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Ensure ArticleFetcher implements the interface.
var _ driven.ArticleFetcher = (*ArticleFetcher)(nil)

// Default configuration values.
const (
	DefaultArticleTimeout = 30 * time.Second

	// minParagraphChars filters out navigation crumbs, captions and
	// cookie-banner fragments that also live in <p> tags.
	minParagraphChars = 40

	// maxBodyBytes caps how much of a page is read.
	maxBodyBytes = 4 << 20
)

// userAgent identifies the fetcher. Some sites refuse the Go default.
const userAgent = "mindpilot/1.0 (+https://github.com/mindpilot-labs/mindpilot)"

// Pre-compiled regular expressions for paragraph extraction.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	paragraphTag = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
)

// ArticleFetcher retrieves the readable body text of web articles by
// collecting substantial paragraph blocks.
type ArticleFetcher struct {
	client *http.Client
}

// NewArticleFetcher creates an article fetcher. A zero timeout uses the
// default.
func NewArticleFetcher(timeout time.Duration) *ArticleFetcher {
	if timeout == 0 {
		timeout = DefaultArticleTimeout
	}
	return &ArticleFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchArticle returns the extracted body text for a URL. Refusals and
// rate limits surface as domain.ErrUpstreamBlocked so callers can
// suggest pasting the text instead.
func (f *ArticleFetcher) FetchArticle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamBlocked, url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	text := ExtractParagraphs(string(body))
	if text == "" {
		return "", fmt.Errorf("%w: no readable paragraphs at %s", domain.ErrUpstreamBlocked, url)
	}
	return text, nil
}

// ExtractParagraphs pulls substantial <p> blocks out of an HTML page,
// strips inner markup, and joins them with blank lines. Short blocks
// are discarded as page furniture.
func ExtractParagraphs(page string) string {
	page = scriptTag.ReplaceAllString(page, "")
	page = styleTag.ReplaceAllString(page, "")
	page = htmlComments.ReplaceAllString(page, "")

	var paragraphs []string
	for _, match := range paragraphTag.FindAllStringSubmatch(page, -1) {
		inner := allTags.ReplaceAllString(match[1], " ")
		inner = html.UnescapeString(inner)
		inner = strings.Join(strings.Fields(inner), " ")
		if len(inner) >= minParagraphChars {
			paragraphs = append(paragraphs, inner)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
