package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates empty or malformed input, rejected
	// before any quota consumption or external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownTier indicates a plan name missing from the policy table.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrQuotaExceeded indicates the governor denied the request.
	// Wrapped by QuotaError, which carries the reason.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrUpstreamBlocked indicates the content source refused or rate
	// limited the fetch. Not retried; callers should suggest pasting
	// the text instead.
	ErrUpstreamBlocked = errors.New("upstream source blocked the fetch")

	// ErrUpstreamUnavailable indicates the generation service failed or
	// timed out after retry.
	ErrUpstreamUnavailable = errors.New("generation service unavailable")

	// ErrGeneratorUnavailable indicates no generation service is
	// configured at all.
	ErrGeneratorUnavailable = errors.New("generation service not configured")
)

// QuotaReason distinguishes the user-facing denial messages.
type QuotaReason string

// Denial reasons.
const (
	// QuotaReasonNotOffered means the plan's quota for this depth is 0:
	// the feature is not included, not used up.
	QuotaReasonNotOffered QuotaReason = "not_offered"

	// QuotaReasonExhausted means the rolling-window allotment is spent.
	QuotaReasonExhausted QuotaReason = "exhausted"

	// QuotaReasonBurst means the rapid-fire guard tripped.
	QuotaReasonBurst QuotaReason = "burst"
)

// QuotaError is a governor denial. It wraps ErrQuotaExceeded so callers
// can match with errors.Is, and carries enough detail to surface the
// right message.
type QuotaError struct {
	// Reason distinguishes "plan does not include this" from "you've
	// used your allotment".
	Reason QuotaReason

	// Depth is the denied depth.
	Depth AnalysisDepth

	// Window is the rolling window the denial applies to. Zero for
	// QuotaReasonNotOffered.
	Window time.Duration
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	switch e.Reason {
	case QuotaReasonNotOffered:
		return fmt.Sprintf("quota exceeded: %s analysis is not included in this plan", e.Depth)
	case QuotaReasonBurst:
		return fmt.Sprintf("quota exceeded: too many analyses in the last %s", e.Window)
	default:
		return fmt.Sprintf("quota exceeded: %s allotment used, try again within %s", e.Depth, e.Window)
	}
}

// Unwrap lets errors.Is(err, ErrQuotaExceeded) match.
func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}
