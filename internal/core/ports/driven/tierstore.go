package driven

import "github.com/mindpilot-labs/mindpilot/internal/core/domain"

// TierPolicyStore provides the plan-to-quota table. Implementations may
// load it from a TOML file and watch for edits, so quota changes land
// without a restart.
type TierPolicyStore interface {
	// Policy returns the current plan table. Implementations must
	// return a table that is safe to read concurrently.
	Policy() domain.TierPolicy

	// TierFor resolves the plan for an identity. Anonymous callers map
	// to the free tier; authenticated callers map to their assigned
	// plan, defaulting to free when no assignment exists.
	TierFor(identity domain.IdentityRef) (domain.Tier, error)

	// Close stops any background watching.
	Close() error
}
