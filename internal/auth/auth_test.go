package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

func TestEd25519RoundTrip(t *testing.T) {
	principal, priv, err := NewPrincipal()
	require.NoError(t, err)

	authn := NewEd25519Authenticator()
	proof := Sign(priv, "increase_budget")

	assert.NoError(t, authn.RequireAuth(context.Background(), principal, proof))
}

func TestEd25519RejectsWrongKey(t *testing.T) {
	principal, _, err := NewPrincipal()
	require.NoError(t, err)
	_, otherKey, err := NewPrincipal()
	require.NoError(t, err)

	authn := NewEd25519Authenticator()
	proof := Sign(otherKey, "increase_budget")

	err = authn.RequireAuth(context.Background(), principal, proof)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestEd25519RejectsTamperedOperation(t *testing.T) {
	principal, priv, err := NewPrincipal()
	require.NoError(t, err)

	proof := Sign(priv, "decrease_budget")
	proof.Operation = "increase_budget"

	err = NewEd25519Authenticator().RequireAuth(context.Background(), principal, proof)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestEd25519RejectsMalformedPrincipal(t *testing.T) {
	authn := NewEd25519Authenticator()

	err := authn.RequireAuth(context.Background(), "not-hex!", models.CallProof{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = authn.RequireAuth(context.Background(), "abcd", models.CallProof{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAllowAllAcceptsEverything(t *testing.T) {
	assert.NoError(t, AllowAll{}.RequireAuth(context.Background(), "anyone", models.CallProof{}))
}

func TestPrincipalEncoding(t *testing.T) {
	principal, _, err := NewPrincipal()
	require.NoError(t, err)

	pub, err := DecodePrincipal(principal)
	require.NoError(t, err)
	assert.Equal(t, principal, EncodePrincipal(pub))
}
