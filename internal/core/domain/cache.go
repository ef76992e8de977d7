package domain

import (
	"strings"
	"time"
)

// Cache freshness windows. Enriched reports carry live social/news
// context that stales faster than the structural analysis itself.
const (
	// FreshnessEnriched is how long an enriched report stays servable.
	FreshnessEnriched = 3 * 24 * time.Hour

	// FreshnessPlain is how long an unenriched report stays servable.
	FreshnessPlain = 7 * 24 * time.Hour
)

// CacheKey identifies reusable prior work. Two requests with the same
// four components resolve to the same cached payload regardless of who
// is asking.
type CacheKey struct {
	// Kind is the input source kind.
	Kind SourceKind

	// Depth is the analysis depth.
	Depth AnalysisDepth

	// Enriched records whether enrichment was included.
	Enriched bool

	// SourceRef is the canonicalized source reference.
	SourceRef string
}

// NewCacheKey builds a key with the source reference canonicalized.
func NewCacheKey(kind SourceKind, depth AnalysisDepth, enriched bool, sourceRef string) CacheKey {
	return CacheKey{
		Kind:      kind,
		Depth:     depth,
		Enriched:  enriched,
		SourceRef: CanonicalSourceRef(sourceRef),
	}
}

// CanonicalSourceRef normalizes a source reference so trivially
// different URLs for the same resource collide on the same key.
// It trims surrounding whitespace and drops a single trailing slash.
func CanonicalSourceRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if len(ref) > 1 && strings.HasSuffix(ref, "/") {
		ref = ref[:len(ref)-1]
	}
	return ref
}

// CacheEntry is a previously produced report held for reuse.
// Entries are written once on a cache miss and read-only afterward.
// Expiry is passive: a lookup past ExpiresAt is treated as a miss and
// the row is left in place for the next writer to overwrite.
type CacheEntry struct {
	// Key identifies the entry.
	Key CacheKey

	// Payload is the serialized AnalysisReport.
	Payload []byte

	// Enriched records whether the stored report actually carries
	// enrichment. Drives freshness selection; may be false under an
	// enriched key when enrichment failed at generation time.
	Enriched bool

	// CreatedAt is when the entry was written.
	CreatedAt time.Time

	// ExpiresAt is when the entry stops being servable.
	ExpiresAt time.Time
}

// Freshness returns the TTL for an entry with the given enrichment.
func Freshness(enriched bool) time.Duration {
	if enriched {
		return FreshnessEnriched
	}
	return FreshnessPlain
}

// Expired reports whether the entry is past its freshness window at t.
func (e *CacheEntry) Expired(t time.Time) bool {
	return !e.ExpiresAt.After(t)
}
