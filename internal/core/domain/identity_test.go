package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentityPrefersUser(t *testing.T) {
	id := ResolveIdentity("user-42", "203.0.113.9")

	assert.Equal(t, IdentityUser, id.Kind)
	assert.Equal(t, "user-42", id.Value)
	assert.False(t, id.IsAnonymous())
}

func TestResolveIdentityFallsBackToAddressHash(t *testing.T) {
	id := ResolveIdentity("", "203.0.113.9")

	assert.Equal(t, IdentityAnonymousNetwork, id.Kind)
	assert.True(t, id.IsAnonymous())
	// The raw address must never appear in the identity value.
	assert.NotContains(t, id.Value, "203.0.113.9")
	assert.Equal(t, HashAddr("203.0.113.9"), id.Value)

	// Same address, same identity.
	again := ResolveIdentity("", "203.0.113.9")
	assert.Equal(t, id, again)
}

func TestIdentityRefString(t *testing.T) {
	id := IdentityRef{Kind: IdentityUser, Value: "u1"}
	assert.Equal(t, "user:u1", id.String())
}
