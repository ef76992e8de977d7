package driven

import "context"

// TranscriptFetcher retrieves the transcript text for a video.
//
// Implementations should return domain.ErrUpstreamBlocked when the
// platform refuses or rate limits the request, so callers can suggest
// pasting the transcript instead of retrying.
type TranscriptFetcher interface {
	// FetchTranscript returns the full transcript text for a video ID.
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// ArticleFetcher retrieves the readable body text of a web article.
//
// Implementations should return domain.ErrUpstreamBlocked when the
// site refuses the fetch.
type ArticleFetcher interface {
	// FetchArticle returns the extracted body text for a URL.
	FetchArticle(ctx context.Context, url string) (string, error)
}
