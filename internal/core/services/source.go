package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// videoIDRe matches a bare YouTube video identifier.
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// adPhrases flags transcript housekeeping sentences - sponsor reads,
// merch plugs, subscribe reminders - that carry no reasoning content.
// Matching is case-insensitive substring.
var adPhrases = []string{
	"this video is sponsored by",
	"today's video is brought to you by",
	"thanks to our sponsor",
	"use code",
	"promo code",
	"discount code",
	"link in the description",
	"smash that like button",
	"don't forget to subscribe",
	"hit the subscribe button",
	"check out our merch",
	"support us on patreon",
}

// ExtractVideoID pulls the 11-character video identifier out of the
// common YouTube URL shapes (watch, youtu.be, shorts, embed, live) or
// accepts a bare identifier. Returns false when no identifier is found.
func ExtractVideoID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if videoIDRe.MatchString(ref) {
		return ref, true
	}

	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if videoIDRe.MatchString(id) {
			return id, true
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); videoIDRe.MatchString(id) {
			return id, true
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id := strings.Trim(rest, "/")
				if videoIDRe.MatchString(id) {
					return id, true
				}
			}
		}
	}
	return "", false
}

// CleanTranscript drops housekeeping sentences from a transcript. If
// filtering would remove everything, the raw text is returned instead -
// an over-aggressive filter must never turn a real transcript into
// empty input.
func CleanTranscript(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	var kept []string
	for _, sentence := range splitRoughSentences(normalized) {
		if !containsAdPhrase(sentence) {
			kept = append(kept, sentence)
		}
	}
	if len(kept) == 0 {
		return normalized
	}
	return strings.Join(kept, " ")
}

func containsAdPhrase(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, phrase := range adPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// splitRoughSentences breaks normalized text at terminal punctuation
// followed by a space. Good enough for per-sentence filtering; exact
// linguistic boundaries don't matter here.
func splitRoughSentences(normalized string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(normalized) && normalized[i+1] != ' ' {
			continue
		}
		sentences = append(sentences, normalized[start:i+1])
		start = i + 2
	}
	if start < len(normalized) {
		sentences = append(sentences, normalized[start:])
	}
	return sentences
}

// canonicalRefFor validates the request's source reference and returns
// the canonical form used for cache keying. No network work happens
// here, so a cache hit never pays for a fetch. Pasted text with no
// caller-supplied label is keyed by a digest of its own content, so the
// same paste reuses the same cache entry.
func canonicalRefFor(req domain.AnalysisRequest) (string, error) {
	switch req.Kind {
	case domain.SourceText:
		ref := strings.TrimSpace(req.SourceRef)
		if ref == "" {
			ref = "text:" + textDigest(strings.Join(strings.Fields(req.Text), " "))
		}
		return domain.CanonicalSourceRef(ref), nil

	case domain.SourceYouTube:
		if _, ok := ExtractVideoID(req.SourceRef); !ok {
			return "", fmt.Errorf("%w: no video ID in %q", domain.ErrInvalidInput, req.SourceRef)
		}
		return domain.CanonicalSourceRef(req.SourceRef), nil

	case domain.SourceArticle:
		ref := strings.TrimSpace(req.SourceRef)
		u, err := url.Parse(ref)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", fmt.Errorf("%w: not an article URL: %q", domain.ErrInvalidInput, req.SourceRef)
		}
		return domain.CanonicalSourceRef(ref), nil

	default:
		return "", fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, req.Kind)
	}
}

// fetchSourceText resolves the request to the text to analyse, hitting
// the network for URL-backed sources. Only called on a cache miss.
func (s *AnalysisService) fetchSourceText(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	switch req.Kind {
	case domain.SourceText:
		text := strings.Join(strings.Fields(req.Text), " ")
		if text == "" {
			return "", fmt.Errorf("%w: empty source text", domain.ErrInvalidInput)
		}
		return text, nil

	case domain.SourceYouTube:
		videoID, _ := ExtractVideoID(req.SourceRef)
		if s.transcripts == nil {
			return "", fmt.Errorf("%w: no transcript fetcher configured", domain.ErrUpstreamBlocked)
		}
		raw, err := s.transcripts.FetchTranscript(ctx, videoID)
		if err != nil {
			return "", fmt.Errorf("fetching transcript for %s: %w", videoID, err)
		}
		text := CleanTranscript(raw)
		if text == "" {
			return "", fmt.Errorf("%w: empty transcript for %s", domain.ErrUpstreamBlocked, videoID)
		}
		logger.Debug("Resolved video %s to %d chars of transcript", videoID, len(text))
		return text, nil

	case domain.SourceArticle:
		ref := strings.TrimSpace(req.SourceRef)
		if s.articles == nil {
			return "", fmt.Errorf("%w: no article fetcher configured", domain.ErrUpstreamBlocked)
		}
		raw, err := s.articles.FetchArticle(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("fetching article %s: %w", ref, err)
		}
		text := strings.Join(strings.Fields(raw), " ")
		if text == "" {
			return "", fmt.Errorf("%w: no readable text at %s", domain.ErrUpstreamBlocked, ref)
		}
		logger.Debug("Resolved article %s to %d chars", ref, len(text))
		return text, nil

	default:
		return "", fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, req.Kind)
	}
}

// textDigest is a short stable digest for labelling pasted text.
func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
