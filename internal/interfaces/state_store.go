package interfaces

import (
	"context"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

// StateStore persists the three ledger records. Getters return
// storage.ErrNotFound when the record has never been written.
type StateStore interface {
	GetOwner(ctx context.Context) (models.Principal, error)
	SetOwner(ctx context.Context, owner models.Principal) error

	GetOperators(ctx context.Context) ([]models.Principal, error)
	SetOperators(ctx context.Context, operators []models.Principal) error

	GetBudget(ctx context.Context) (models.BudgetState, error)
	SetBudget(ctx context.Context, budget models.BudgetState) error

	// SaveSnapshot writes all three records all-or-nothing; initialization
	// must never leave a partially written instance behind.
	SaveSnapshot(ctx context.Context, owner models.Principal, operators []models.Principal, budget models.BudgetState) error
}
