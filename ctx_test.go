package gatekeeper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContextRoundTrip(t *testing.T) {
	principal := &Principal{
		Username:    "mario",
		Authorities: []string{AuthorityUserRead, AuthorityUserUpdate},
	}

	ctx := WithPrincipal(context.Background(), principal)

	got, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "mario", got.Username)
	assert.True(t, got.HasAuthority(AuthorityUserRead))
	assert.False(t, got.HasAuthority(AuthorityUserDelete))
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	got, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestHasAuthorityHelper(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{
		Username:    "mario",
		Authorities: []string{AuthorityUserRead},
	})

	assert.True(t, HasAuthority(ctx, AuthorityUserRead))
	assert.False(t, HasAuthority(ctx, AuthorityUserDelete))
	assert.False(t, HasAuthority(context.Background(), AuthorityUserRead))
}

func TestNilPrincipalIsSafe(t *testing.T) {
	var principal *Principal
	assert.False(t, principal.HasAuthority(AuthorityUserRead))
}
