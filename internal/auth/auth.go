// Package auth implements the caller-authentication collaborator: it
// decides whether the invoking identity actually authorized a call as a
// given principal. Principals are hex-encoded ed25519 public keys.
package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	interfaces "github.com/arywk40-hue/governance-budget-allocator/internal/interfaces"
	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

// ErrUnauthenticated is returned when the presented proof does not show the
// principal authorized the call. It is deliberately not one of the ledger's
// numbered error kinds; it aborts the operation before ledger logic runs.
var ErrUnauthenticated = errors.New("auth: principal did not authorize call")

// Ed25519Authenticator verifies call proofs against the ed25519 public key
// encoded in the principal itself.
type Ed25519Authenticator struct{}

func NewEd25519Authenticator() Ed25519Authenticator {
	return Ed25519Authenticator{}
}

func (Ed25519Authenticator) RequireAuth(ctx context.Context, principal models.Principal, proof models.CallProof) error {
	pub, err := DecodePrincipal(principal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !ed25519.Verify(pub, proof.Message(), proof.Signature) {
		return fmt.Errorf("%w: bad signature for %s", ErrUnauthenticated, principal)
	}
	return nil
}

// AllowAll accepts every call. Test double standing in for a host
// environment that mocks authentication.
type AllowAll struct{}

func (AllowAll) RequireAuth(ctx context.Context, principal models.Principal, proof models.CallProof) error {
	return nil
}

// NewPrincipal generates a fresh ed25519 key pair and returns the principal
// encoding of the public key alongside the private key.
func NewPrincipal() (models.Principal, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, err
	}
	return EncodePrincipal(pub), priv, nil
}

// EncodePrincipal returns the principal form of an ed25519 public key.
func EncodePrincipal(pub ed25519.PublicKey) models.Principal {
	return models.Principal(hex.EncodeToString(pub))
}

// DecodePrincipal recovers the ed25519 public key a principal encodes.
func DecodePrincipal(principal models.Principal) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(string(principal))
	if err != nil {
		return nil, fmt.Errorf("principal %q is not hex: %v", principal, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("principal %q has length %d, want %d", principal, len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// Sign produces a call proof for operation using priv, with a fresh nonce.
func Sign(priv ed25519.PrivateKey, operation string) models.CallProof {
	proof := models.CallProof{
		Operation: operation,
		Nonce:     uuid.NewString(),
	}
	proof.Signature = ed25519.Sign(priv, proof.Message())
	return proof
}

var (
	_ interfaces.Authenticator = Ed25519Authenticator{}
	_ interfaces.Authenticator = AllowAll{}
)
