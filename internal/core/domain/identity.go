package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// IdentityKind tags the two possible caller identities.
type IdentityKind string

// Available identity kinds.
const (
	// IdentityUser is an authenticated user.
	IdentityUser IdentityKind = "user"

	// IdentityAnonymousNetwork is an anonymous caller scoped by a
	// one-way hash of their network address.
	IdentityAnonymousNetwork IdentityKind = "anon_network"
)

// IdentityRef identifies a caller for quota accounting. It is a tagged
// union: exactly one of user ID or address hash, never both.
type IdentityRef struct {
	// Kind tags which identity applies.
	Kind IdentityKind

	// Value is the user ID or the hex address hash.
	Value string
}

// ResolveIdentity classifies a caller. An authenticated user ID takes
// precedence; the network address is used only when no user is present,
// so one request is never counted under both identities.
func ResolveIdentity(userID, remoteAddr string) IdentityRef {
	if userID != "" {
		return IdentityRef{Kind: IdentityUser, Value: userID}
	}
	return IdentityRef{Kind: IdentityAnonymousNetwork, Value: HashAddr(remoteAddr)}
}

// HashAddr produces a one-way hex digest of a network address so raw
// addresses never reach the usage log.
func HashAddr(addr string) string {
	sum := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(sum[:])
}

// IsAnonymous returns true for network-address identities.
func (id IdentityRef) IsAnonymous() bool {
	return id.Kind == IdentityAnonymousNetwork
}

// String returns a stable "kind:value" form suitable for storage keys.
func (id IdentityRef) String() string {
	return string(id.Kind) + ":" + id.Value
}
