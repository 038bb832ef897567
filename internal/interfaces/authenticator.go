package interfaces

import (
	"context"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

// Authenticator asserts that the invoking identity actually authorized the
// current call as principal. A failure aborts the operation before any
// ledger logic runs.
type Authenticator interface {
	RequireAuth(ctx context.Context, principal models.Principal, proof models.CallProof) error
}
